package cmd

import (
	"github.com/spf13/cobra"

	"github.com/corey/vimmeta/internal/domain/plugin"
)

var pluginCmd = &cobra.Command{
	Use:   "plugin <dir>",
	Short: "Assemble a plugin directory",
	Long: "Walks the conventional plugin layout (plugin/, autoload/, ftplugin/, ...) and prints\n" +
		"the metadata of every source file. Nothing is stored.",
	Args: cobra.ExactArgs(1),
	RunE: runPlugin,
}

func runPlugin(cmd *cobra.Command, args []string) error {
	asm := plugin.NewAssembler(
		plugin.WithLogger(logger),
		plugin.WithWorkers(cfg.Workers),
		plugin.WithExtensions(cfg.Extensions...),
	)
	res, err := asm.Assemble(cmdContext(cmd), args[0])
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), formatFlag, res.Plugin, func() string {
		return formatPlugin(res.Plugin, painter(resolveColor(colorFlag)))
	})
}
