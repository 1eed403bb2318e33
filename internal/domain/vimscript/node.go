// Package vimscript extracts documentation metadata from Vim script source.
//
// The parser is line oriented and tolerant: it recognizes doc-comment blocks
// (introduced by a bare `""` line) and the declarations they document
// (functions, commands, variables and configurable flags). Expressions are
// never evaluated; initializers and defaults are kept as raw source text.
// Parsing never fails. Unrecognized lines simply produce no node.
package vimscript

// Kind tags a Node variant.
type Kind string

const (
	KindDoc      Kind = "doc"
	KindFunction Kind = "function"
	KindCommand  Kind = "command"
	KindVariable Kind = "variable"
	KindFlag     Kind = "flag"
)

// Node is one extracted item of a module. The set of implementations is
// closed: StandaloneDocComment, Function, Command, Variable and Flag.
type Node interface {
	vimNode()
}

// StandaloneDocComment is a doc block not attached to any declaration.
type StandaloneDocComment struct {
	Doc string
}

// Function is a `:function` definition.
type Function struct {
	Name      string
	Args      []string // parameter names in order, "..." for varargs
	Modifiers []string // "!" then range/dict/abort/closure, source order
	Doc       *string
}

// Command is a user `:command` definition.
type Command struct {
	Name      string
	Modifiers []string // attribute tokens verbatim, e.g. "-nargs=+"
	Doc       *string
}

// Variable is a top-level `:let` (or `:const`) assignment. Name keeps the
// scope prefix verbatim ("g:foo", "s:bar", "baz").
type Variable struct {
	Name           string
	InitValueToken string
	Doc            *string
}

// Flag is a user-configurable setting with a default.
type Flag struct {
	Name              string
	DefaultValueToken *string
	Doc               *string
}

func (StandaloneDocComment) vimNode() {}
func (Function) vimNode()             {}
func (Command) vimNode()              {}
func (Variable) vimNode()             {}
func (Flag) vimNode()                 {}

// DocOf returns the doc text of any node, or nil when it has none.
func DocOf(n Node) *string {
	switch v := n.(type) {
	case StandaloneDocComment:
		doc := v.Doc
		return &doc
	case Function:
		return v.Doc
	case Command:
		return v.Doc
	case Variable:
		return v.Doc
	case Flag:
		return v.Doc
	}
	return nil
}

// KindOf returns the variant tag of n.
func KindOf(n Node) Kind {
	switch n.(type) {
	case StandaloneDocComment:
		return KindDoc
	case Function:
		return KindFunction
	case Command:
		return KindCommand
	case Variable:
		return KindVariable
	case Flag:
		return KindFlag
	}
	return ""
}

// NameOf returns the declared name, or "" for standalone docs.
func NameOf(n Node) string {
	switch v := n.(type) {
	case Function:
		return v.Name
	case Command:
		return v.Name
	case Variable:
		return v.Name
	case Flag:
		return v.Name
	}
	return ""
}

// withDoc returns a copy of n carrying doc. Standalone docs are returned as is.
func withDoc(n Node, doc *string) Node {
	switch v := n.(type) {
	case Function:
		v.Doc = doc
		return v
	case Command:
		v.Doc = doc
		return v
	case Variable:
		v.Doc = doc
		return v
	case Flag:
		v.Doc = doc
		return v
	}
	return n
}

// Module is one parsed source unit.
type Module struct {
	Path  *string // nil for in-memory input
	Doc   *string // file-level doc, promoted out of Nodes
	Nodes []Node
}

// Plugin is every module discovered under a plugin root, in traversal order.
type Plugin struct {
	Content []Module
}

// Stats counts nodes by kind across a plugin.
func (p *Plugin) Stats() map[Kind]int {
	stats := make(map[Kind]int)
	for _, m := range p.Content {
		for _, n := range m.Nodes {
			stats[KindOf(n)]++
		}
	}
	return stats
}
