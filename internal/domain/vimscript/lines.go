package vimscript

import (
	"regexp"
	"strings"
)

// Line is one logical line (or one bar-separated statement of it).
type Line struct {
	Num    int    // 1-based physical line where it starts
	Indent int    // width of leading blanks on that physical line
	Text   string // content without indentation or trailing blanks
	Cont   bool   // not the first statement on its logical line
}

// Blank reports whether the line has no content.
func (l Line) Blank() bool { return l.Text == "" }

// Comment reports whether the line is a `"` comment.
func (l Line) Comment() bool { return strings.HasPrefix(l.Text, `"`) }

// SplitLogicalLines splits source text into logical lines, joining Vim
// line continuations (a line whose first non-blank character is `\` is
// appended to the previous non-comment line). `"\ ` continuation comments
// inside a continued statement are dropped.
func SplitLogicalLines(text string) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}

	lines := make([]Line, 0, len(raw))
	for i, r := range raw {
		r = strings.TrimRight(r, "\r")
		body := strings.TrimLeft(r, " \t")
		indent := len(r) - len(body)
		body = strings.TrimRight(body, " \t")

		if n := len(lines); n > 0 && !lines[n-1].Blank() && !lines[n-1].Comment() {
			if strings.HasPrefix(body, `\`) {
				lines[n-1].Text += body[1:]
				continue
			}
			if strings.HasPrefix(body, `"\ `) {
				continue
			}
		}
		lines = append(lines, Line{Num: i + 1, Indent: indent, Text: body})
	}
	return lines
}

// unsplittable matches Ex commands that take `|` as part of their argument.
var unsplittable = regexp.MustCompile(`^(com(m(a(n(d)?)?)?)?!?|au(t(o(c(m(d)?)?)?)?)?!?|[nvxsoilc]?(nore)?map!?|no(r(e(m(a(p)?)?)?)?)?!?|norm(a(l)?)?!?|exe(c(u(t(e)?)?)?)?)(\s|$)`)

// SplitStatements splits each logical line on top-level `|` bars. Comment
// lines and commands that own their whole line are left intact.
func SplitStatements(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Blank() || l.Comment() || unsplittable.MatchString(l.Text) {
			out = append(out, l)
			continue
		}
		for i, part := range splitBar(l.Text) {
			out = append(out, Line{Num: l.Num, Indent: l.Indent, Text: part, Cont: i > 0})
		}
	}
	return out
}

// splitBar splits s on `|` outside strings and brackets. `||` is the
// logical-or operator and never splits.
func splitBar(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'':
			i = skipSingleQuoted(s, i)
		case '"':
			i = skipDoubleQuoted(s, i)
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '|':
			if i+1 < len(s) && s[i+1] == '|' {
				i++
				continue
			}
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))

	// Drop empty segments left by leading/trailing bars.
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return []string{strings.TrimSpace(s)}
	}
	return kept
}

// skipSingleQuoted returns the index of the closing quote of the literal
// starting at s[i], or len(s)-1 when unterminated. `''` is an escaped quote.
func skipSingleQuoted(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		if s[j] == '\'' {
			if j+1 < len(s) && s[j+1] == '\'' {
				j++
				continue
			}
			return j
		}
	}
	return len(s) - 1
}

// skipDoubleQuoted is skipSingleQuoted for backslash-escaped "..." strings.
func skipDoubleQuoted(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j
		}
	}
	return len(s) - 1
}

// splitArgs splits an argument list on top-level commas.
func splitArgs(s string) []string {
	var args []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			i = skipSingleQuoted(s, i)
		case '"':
			i = skipDoubleQuoted(s, i)
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" || len(args) > 0 {
		args = append(args, last)
	}
	return args
}

// matchingParen returns the index of the bracket closing s[open], or -1.
func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\'':
			i = skipSingleQuoted(s, i)
		case '"':
			i = skipDoubleQuoted(s, i)
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// unquote strips a Vim string literal. Single-quoted strings are literal
// except for `''`; double-quoted strings honor backslash escapes.
func unquote(lit string) (string, bool) {
	if len(lit) < 2 {
		return "", false
	}
	switch {
	case lit[0] == '\'' && lit[len(lit)-1] == '\'':
		return strings.ReplaceAll(lit[1:len(lit)-1], "''", "'"), true
	case lit[0] == '"' && lit[len(lit)-1] == '"':
		var sb strings.Builder
		body := lit[1 : len(lit)-1]
		for i := 0; i < len(body); i++ {
			c := body[i]
			if c != '\\' || i+1 == len(body) {
				sb.WriteByte(c)
				continue
			}
			i++
			switch body[i] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'e':
				sb.WriteByte(0x1b)
			default:
				sb.WriteByte(body[i])
			}
		}
		return sb.String(), true
	}
	return "", false
}
