package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/corey/vimmeta/internal/domain/vimscript"
	"github.com/corey/vimmeta/internal/ports"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// ANSI color codes for terminal output.
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorCyan    = "\033[36m"
	colorMagenta = "\033[35m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorGray    = "\033[90m"
)

// painter wraps text in ANSI codes when color is enabled.
type painter bool

func (p painter) paint(code, s string) string {
	if !p || s == "" {
		return s
	}
	return code + s + colorReset
}

var kindOrder = []vimscript.Kind{
	vimscript.KindFunction,
	vimscript.KindCommand,
	vimscript.KindVariable,
	vimscript.KindFlag,
	vimscript.KindDoc,
}

var kindColor = map[vimscript.Kind]string{
	vimscript.KindFunction: colorCyan,
	vimscript.KindCommand:  colorMagenta,
	vimscript.KindVariable: colorYellow,
	vimscript.KindFlag:     colorGreen,
	vimscript.KindDoc:      colorGray,
}

// writeOutput encodes v in the selected format. text renders the
// human-readable form and is only called for the text format.
func writeOutput(w io.Writer, format string, v any, text func() string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, text())
		return err
	}
}

// firstLine returns the first line of a doc comment, or "".
func firstLine(doc *string) string {
	if doc == nil {
		return ""
	}
	line, _, _ := strings.Cut(*doc, "\n")
	return line
}

// formatStats renders node counts in a fixed kind order, e.g. "2 functions, 1 flag".
func formatStats(stats map[vimscript.Kind]int) string {
	var parts []string
	for _, k := range kindOrder {
		n := stats[k]
		if n == 0 {
			continue
		}
		label := string(k)
		if n > 1 {
			label += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, label))
	}
	if len(parts) == 0 {
		return "no declarations"
	}
	return strings.Join(parts, ", ")
}

// formatNode renders one node on a single line:
//
//	function foo#Run(a, ...)  ! abort  Runs foo.
//	flag g:foo_level = 2
func formatNode(n vimscript.Node, p painter) string {
	kind := vimscript.KindOf(n)
	var sb strings.Builder
	sb.WriteString(p.paint(kindColor[kind], string(kind)))
	sb.WriteString(" ")

	switch v := n.(type) {
	case vimscript.StandaloneDocComment:
		sb.WriteString(p.paint(colorGray, firstLine(&v.Doc)))
		return sb.String()
	case vimscript.Function:
		sb.WriteString(p.paint(colorBold, v.Name))
		sb.WriteString("(" + strings.Join(v.Args, ", ") + ")")
		if len(v.Modifiers) > 0 {
			sb.WriteString("  " + strings.Join(v.Modifiers, " "))
		}
	case vimscript.Command:
		sb.WriteString(p.paint(colorBold, v.Name))
		if len(v.Modifiers) > 0 {
			sb.WriteString("  " + strings.Join(v.Modifiers, " "))
		}
	case vimscript.Variable:
		sb.WriteString(p.paint(colorBold, v.Name))
		sb.WriteString(" = " + v.InitValueToken)
	case vimscript.Flag:
		sb.WriteString(p.paint(colorBold, v.Name))
		if v.DefaultValueToken != nil {
			sb.WriteString(" = " + *v.DefaultValueToken)
		}
	}

	if doc := firstLine(vimscript.DocOf(n)); doc != "" {
		sb.WriteString("  " + p.paint(colorGray, doc))
	}
	return sb.String()
}

// formatModule renders a module header followed by its nodes.
func formatModule(sb *strings.Builder, m vimscript.Module, p painter) {
	name := "<stdin>"
	if m.Path != nil {
		name = *m.Path
	}
	sb.WriteString("  " + p.paint(colorCyan, name))
	if doc := firstLine(m.Doc); doc != "" {
		sb.WriteString("  " + p.paint(colorGray, doc))
	}
	sb.WriteString("\n")
	for _, n := range m.Nodes {
		sb.WriteString("    " + formatNode(n, p) + "\n")
	}
}

// formatModuleText renders a single parsed file.
func formatModuleText(m vimscript.Module, p painter) string {
	stats := make(map[vimscript.Kind]int)
	for _, n := range m.Nodes {
		stats[vimscript.KindOf(n)]++
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s │ %s\n", p.paint(colorBold, "⚡ 1 module"), formatStats(stats)))
	formatModule(&sb, m, p)
	return sb.String()
}

// formatPlugin renders every module of a plugin under a summary line.
//
//	⚡ 2 modules │ 1 function, 1 command
//	  plugin/foo.vim  Foo plugin.
//	    command Foo  -nargs=?
func formatPlugin(pl *vimscript.Plugin, p painter) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s │ %s\n",
		p.paint(colorBold, fmt.Sprintf("⚡ %d modules", len(pl.Content))), formatStats(pl.Stats())))
	for _, m := range pl.Content {
		formatModule(&sb, m, p)
	}
	return sb.String()
}

// formatMeta renders one index summary line.
func formatMeta(meta *ports.PluginMeta, p painter) string {
	line := fmt.Sprintf("  %s  %d modules │ %s │ %s",
		p.paint(colorCyan, meta.Root), meta.Modules, formatStats(meta.Stats),
		p.paint(colorGray, meta.IndexedAt.Local().Format(time.DateTime)))
	if len(meta.Skipped) > 0 {
		line += "  " + p.paint(colorYellow, fmt.Sprintf("%d skipped", len(meta.Skipped)))
	}
	return line + "\n"
}

// formatIndexed renders the result of an index pass.
func formatIndexed(meta *ports.PluginMeta, p painter) string {
	var sb strings.Builder
	sb.WriteString(p.paint(colorBold, "⚡ indexed") + "\n")
	sb.WriteString(formatMeta(meta, p))
	skipped := append([]string(nil), meta.Skipped...)
	sort.Strings(skipped)
	for _, s := range skipped {
		sb.WriteString("    " + p.paint(colorYellow, "skipped "+s) + "\n")
	}
	return sb.String()
}

// formatList renders all indexed plugins.
func formatList(list []ports.PluginMeta, p painter) string {
	if len(list) == 0 {
		return "⚡ no plugins indexed\n"
	}
	var sb strings.Builder
	sb.WriteString(p.paint(colorBold, fmt.Sprintf("⚡ %d plugins", len(list))) + "\n")
	for i := range list {
		sb.WriteString(formatMeta(&list[i], p))
	}
	return sb.String()
}
