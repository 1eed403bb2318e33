package vimscript

import "strings"

// docMarker is the bare line that opens a doc-comment block.
const docMarker = `""`

// ScanDocBlock reports whether a doc-comment block starts at lines[i].
// The block is the `""` marker line plus every following comment line at
// the same indentation. It returns the normalized text (leader and one
// space stripped per line, trailing blank lines dropped) and the index of
// the first line after the block.
func ScanDocBlock(lines []Line, i int) (doc string, next int, ok bool) {
	if i < 0 || i >= len(lines) {
		return "", i, false
	}
	head := lines[i]
	if head.Cont || head.Text != docMarker {
		return "", i, false
	}

	var body []string
	next = i + 1
	for ; next < len(lines); next++ {
		l := lines[next]
		if l.Cont || !l.Comment() || l.Indent != head.Indent {
			break
		}
		text := l.Text[1:]
		text = strings.TrimPrefix(text, " ")
		body = append(body, text)
	}
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}
	return strings.Join(body, "\n"), next, true
}
