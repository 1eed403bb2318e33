package cmd

import (
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <dir>",
	Short: "Assemble a plugin and store its metadata",
	Long:  "Assembles the plugin at <dir> and saves it to the metadata store, replacing any earlier entry.",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndex,
}

func runIndex(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Index(cmdContext(cmd), args[0])
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), formatFlag, res.Meta, func() string {
		return formatIndexed(res.Meta, painter(resolveColor(colorFlag)))
	})
}
