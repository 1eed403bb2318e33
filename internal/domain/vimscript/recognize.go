package vimscript

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// :fu[nction][!] {name}(...)
	funcHeader = regexp.MustCompile(`^fu(?:n(?:c(?:t(?:i(?:o(?:n)?)?)?)?)?)?(!)?\s+([A-Za-z0-9_:#.<>]+)\s*\(`)
	// :endf[unction]
	funcEnd = regexp.MustCompile(`^endf(?:u(?:n(?:c(?:t(?:i(?:o(?:n)?)?)?)?)?)?)?(?:\s|"|$)`)
	// :com[mand][!] {attr}... {name} {repl}
	commandHeader = regexp.MustCompile(`^com(?:m(?:a(?:n(?:d)?)?)?)?(!)?(?:\s+(.*))?$`)
	commandName   = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	// :let / :const
	letHeader = regexp.MustCompile(`^(?:let|cons|const)\s+(.*)$`)
	// A declarable variable: optional g/s/b/w/t scope then an identifier.
	varName = regexp.MustCompile(`^(?:[gsbwt]:)?[A-Za-z_][A-Za-z0-9_#]*`)
)

var funcModifiers = map[string]bool{
	"range":   true,
	"dict":    true,
	"abort":   true,
	"closure": true,
}

// Recognize reports whether a declaration starts at lines[i]. It returns
// the nodes the declaration yields (without docs; destructuring lets
// yield several) and the index of the first line after the declaration.
func Recognize(lines []Line, i int) (nodes []Node, next int, ok bool) {
	if i < 0 || i >= len(lines) || lines[i].Blank() || lines[i].Comment() {
		return nil, i, false
	}
	for _, rec := range []func([]Line, int) ([]Node, int, bool){
		recognizeFunction,
		recognizeCommand,
		recognizeGuardFlag,
		recognizeCallFlag,
		recognizeLet,
	} {
		if nodes, next, ok := rec(lines, i); ok {
			return nodes, next, true
		}
	}
	return nil, i, false
}

func recognizeFunction(lines []Line, i int) ([]Node, int, bool) {
	head := lines[i]
	m := funcHeader.FindStringSubmatchIndex(head.Text)
	if m == nil {
		return nil, i, false
	}
	open := m[1] - 1
	closing := matchingParen(head.Text, open)
	if closing < 0 {
		return nil, i, false
	}

	fn := Function{Name: head.Text[m[4]:m[5]], Args: []string{}, Modifiers: []string{}}
	if m[2] >= 0 {
		fn.Modifiers = append(fn.Modifiers, "!")
	}
	for _, arg := range splitArgs(head.Text[open+1 : closing]) {
		if eq := strings.Index(arg, "="); eq >= 0 {
			arg = strings.TrimSpace(arg[:eq])
		}
		if arg != "" {
			fn.Args = append(fn.Args, arg)
		}
	}
	for _, tok := range strings.Fields(head.Text[closing+1:]) {
		if !funcModifiers[tok] {
			break
		}
		fn.Modifiers = append(fn.Modifiers, tok)
	}
	return []Node{fn}, functionEnd(lines, i), true
}

// functionEnd returns the index after the `endfunction` closing the
// function at lines[i]: the first one at the same or lesser indentation,
// else the first one at all, else end of input.
func functionEnd(lines []Line, i int) int {
	fallback := -1
	for j := i + 1; j < len(lines); j++ {
		if !funcEnd.MatchString(lines[j].Text) {
			continue
		}
		if lines[j].Indent <= lines[i].Indent {
			return j + 1
		}
		if fallback < 0 {
			fallback = j + 1
		}
	}
	if fallback >= 0 {
		return fallback
	}
	return len(lines)
}

func recognizeCommand(lines []Line, i int) ([]Node, int, bool) {
	m := commandHeader.FindStringSubmatch(lines[i].Text)
	if m == nil {
		return nil, i, false
	}
	cmd := Command{Modifiers: []string{}}
	for _, tok := range strings.Fields(m[2]) {
		if strings.HasPrefix(tok, "-") {
			cmd.Modifiers = append(cmd.Modifiers, tok)
			continue
		}
		if !commandName.MatchString(tok) {
			return nil, i, false
		}
		cmd.Name = tok
		break
	}
	if cmd.Name == "" {
		return nil, i, false
	}
	return []Node{cmd}, i + 1, true
}

// assignment splits `let {target} = {expr}` into its parts. Compound
// operators (+=, .=, ..=), comparisons and heredocs are rejected.
func assignment(text string) (target, expr string, ok bool) {
	m := letHeader.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	rest := m[1]

	var end int
	if strings.HasPrefix(rest, "[") {
		end = matchingParen(rest, 0) + 1
		if end <= 0 {
			return "", "", false
		}
	} else {
		end = len(varName.FindString(rest))
		if end == 0 {
			return "", "", false
		}
	}
	target = rest[:end]
	op := strings.TrimLeft(rest[end:], " \t")
	if !strings.HasPrefix(op, "=") || strings.HasPrefix(op, "==") || strings.HasPrefix(op, "=<<") {
		return "", "", false
	}
	return target, strings.TrimSpace(op[1:]), true
}

func recognizeLet(lines []Line, i int) ([]Node, int, bool) {
	target, expr, ok := assignment(lines[i].Text)
	if !ok {
		return nil, i, false
	}
	if strings.HasPrefix(target, "[") {
		nodes := destructure(target, expr)
		return nodes, i + 1, len(nodes) > 0
	}
	if flag, ok := getFlag(expr); ok {
		return []Node{flag}, i + 1, true
	}
	return []Node{Variable{Name: target, InitValueToken: expr}}, i + 1, true
}

// destructure expands `let [a, b; rest] = expr` into one Variable per
// target, indexing expr by position.
func destructure(target, expr string) []Node {
	inner := target[1 : len(target)-1]
	var rest string
	if semi := strings.LastIndex(inner, ";"); semi >= 0 {
		rest = strings.TrimSpace(inner[semi+1:])
		inner = inner[:semi]
	}

	var nodes []Node
	names := splitArgs(inner)
	for idx, name := range names {
		if !isDeclarable(name) {
			continue
		}
		nodes = append(nodes, Variable{Name: name, InitValueToken: expr + "[" + strconv.Itoa(idx) + "]"})
	}
	if isDeclarable(rest) {
		nodes = append(nodes, Variable{Name: rest, InitValueToken: expr + "[" + strconv.Itoa(len(names)) + ":]"})
	}
	return nodes
}

func isDeclarable(name string) bool {
	return name != "" && varName.FindString(name) == name
}
