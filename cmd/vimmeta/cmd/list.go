package cmd

import (
	"github.com/spf13/cobra"

	"github.com/corey/vimmeta/internal/ports"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed plugins",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.List()
	if err != nil {
		return err
	}
	if list == nil {
		list = []ports.PluginMeta{}
	}
	return writeOutput(cmd.OutOrStdout(), formatFlag, list, func() string {
		return formatList(list, painter(resolveColor(colorFlag)))
	})
}
