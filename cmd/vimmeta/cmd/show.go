package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/vimmeta/internal/adapters/bbolt"
)

var showCmd = &cobra.Command{
	Use:   "show <dir>",
	Short: "Print stored metadata for a plugin",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	meta, p, err := a.Show(args[0])
	if errors.Is(err, bbolt.ErrNotIndexed) {
		return fmt.Errorf("%w\n  → index it first:  vimmeta index %s", err, args[0])
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), formatFlag, p, func() string {
		pt := painter(resolveColor(colorFlag))
		return formatMeta(meta, pt) + formatPlugin(p, pt)
	})
}
