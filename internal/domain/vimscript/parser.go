package vimscript

import (
	"fmt"
	"io/fs"
)

// ParseModuleText parses in-memory source. The returned module has no path.
func ParseModuleText(text string) Module {
	return parseLines(SplitStatements(SplitLogicalLines(text)))
}

// ParseModuleFile reads name from fsys and parses it. Only the read can fail.
func ParseModuleFile(fsys fs.FS, name string) (Module, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Module{}, fmt.Errorf("read module %s: %w", name, err)
	}
	mod := ParseModuleText(string(data))
	mod.Path = &name
	return mod, nil
}

// parseLines drives the doc scanner and the declaration recognizer over
// one module's statements.
//
// A doc block attaches to a declaration that follows it after zero or more
// blank lines. Any other line in between leaves it dangling. The first
// dangling block seen before any node becomes the module doc; later ones
// are emitted as StandaloneDocComment.
func parseLines(lines []Line) Module {
	var mod Module
	for i := 0; i < len(lines); {
		doc, end, ok := ScanDocBlock(lines, i)
		if !ok {
			if nodes, next, ok := Recognize(lines, i); ok {
				mod.Nodes = append(mod.Nodes, nodes...)
				i = next
				continue
			}
			i++
			continue
		}

		k := end
		for k < len(lines) && lines[k].Blank() {
			k++
		}
		if nodes, next, ok := Recognize(lines, k); ok {
			nodes[0] = withDoc(nodes[0], &doc)
			mod.Nodes = append(mod.Nodes, nodes...)
			i = next
			continue
		}

		if mod.Doc == nil && len(mod.Nodes) == 0 {
			mod.Doc = &doc
		} else {
			mod.Nodes = append(mod.Nodes, StandaloneDocComment{Doc: doc})
		}
		i = end
	}
	return mod
}
