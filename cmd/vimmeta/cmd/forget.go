package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forgetCmd = &cobra.Command{
	Use:   "forget <dir>",
	Short: "Remove a plugin from the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runForget,
}

func runForget(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Forget(args[0]); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "⚡ forgot", args[0])
	return nil
}
