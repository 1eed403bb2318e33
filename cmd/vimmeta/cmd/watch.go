package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/vimmeta/internal/app"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Index a plugin and keep it up to date",
	Long:  "Indexes <dir>, then re-indexes it whenever a source file changes. Stops on Ctrl-C.",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	pt := painter(resolveColor(colorFlag))
	return a.Watch(ctx, args[0], func(res *app.IndexResult, err error) {
		if err != nil {
			return // logged by the app
		}
		_ = writeOutput(out, formatFlag, res.Meta, func() string {
			return formatIndexed(res.Meta, pt)
		})
	})
}
