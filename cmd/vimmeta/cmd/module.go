package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corey/vimmeta/internal/domain/vimscript"
)

var moduleCmd = &cobra.Command{
	Use:   "module <file|->",
	Short: "Parse one Vim script file",
	Long:  "Parses a single file (or stdin when the argument is -) and prints its metadata. No index required.",
	Args:  cobra.ExactArgs(1),
	RunE:  runModule,
}

func runModule(cmd *cobra.Command, args []string) error {
	var mod vimscript.Module
	if args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		mod = vimscript.ParseModuleText(string(data))
	} else {
		path := args[0]
		parsed, err := vimscript.ParseModuleFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
		if err != nil {
			return err
		}
		parsed.Path = &path
		mod = parsed
	}

	return writeOutput(cmd.OutOrStdout(), formatFlag, mod, func() string {
		return formatModuleText(mod, painter(resolveColor(colorFlag)))
	})
}
