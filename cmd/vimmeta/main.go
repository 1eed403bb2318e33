// vimmeta extracts documentation metadata from Vim plugins.
// Parse single files, assemble whole plugins, or keep an index up to date.
package main

import (
	"os"

	"github.com/corey/vimmeta/cmd/vimmeta/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
