// Package plugin assembles the modules of a Vim plugin distribution into a
// single vimscript.Plugin.
package plugin

import (
	"path"
	"strings"
)

// Categories are the conventional plugin subdirectories that carry
// metadata, in output order.
var Categories = []string{
	"plugin",
	"instant",
	"autoload",
	"syntax",
	"indent",
	"ftdetect",
	"ftplugin",
	"compiler",
	"colors",
}

// DefaultExtensions are the source file extensions parsed when none are configured.
var DefaultExtensions = []string{".vim"}

// Never entered at any depth. Hidden directories are excluded as well.
var excludedDirs = map[string]bool{
	"after": true,
	"doc":   true,
	"test":  true,
	"tests": true,
}

// ExcludedDir reports whether a directory with this base name is skipped.
func ExcludedDir(name string) bool {
	return excludedDirs[name] || strings.HasPrefix(name, ".")
}

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

func hasExtension(name string, exts []string) bool {
	ext := path.Ext(name)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Included reports whether rel, a slash-separated path relative to the
// plugin root, is a file the assembler would parse.
func Included(rel string, exts []string) bool {
	parts := strings.Split(rel, "/")
	if len(parts) < 2 || !IsCategory(parts[0]) {
		return false
	}
	for _, dir := range parts[1 : len(parts)-1] {
		if ExcludedDir(dir) {
			return false
		}
	}
	return hasExtension(parts[len(parts)-1], exts)
}
