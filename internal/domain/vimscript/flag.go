package vimscript

import (
	"regexp"
	"strings"
)

var (
	// if !exists('g:name')
	guardHeader = regexp.MustCompile(`^if\s*!\s*exists\(\s*(?:'([gsbwt]:[A-Za-z0-9_#]+)'|"([gsbwt]:[A-Za-z0-9_#]+)")\s*\)\s*$`)
	ifOpen      = regexp.MustCompile(`^if(?:\s|\(|!|$)`)
	ifClose     = regexp.MustCompile(`^en(?:d(?:i(?:f)?)?)?(?:\s|"|$)`)
	// call Flag(...) / call s:plugin.Flag(...)
	callHeader = regexp.MustCompile(`^cal(?:l)?\s+([A-Za-z0-9_:#.<>]+)\s*\(`)
)

// recognizeGuardFlag matches the
//
//	if !exists('g:name')
//	  let g:name = default
//	endif
//
// idiom, across lines or bar-joined on one line. The declaration runs
// through the matching endif.
func recognizeGuardFlag(lines []Line, i int) ([]Node, int, bool) {
	m := guardHeader.FindStringSubmatch(lines[i].Text)
	if m == nil {
		return nil, i, false
	}
	name := m[1] + m[2]

	var def *string
	depth := 1
	j := i + 1
	for ; j < len(lines) && depth > 0; j++ {
		text := lines[j].Text
		switch {
		case ifOpen.MatchString(text):
			depth++
		case ifClose.MatchString(text):
			depth--
		case depth == 1 && def == nil:
			if target, expr, ok := assignment(text); ok && target == name {
				def = &expr
			}
		}
	}
	if def == nil {
		return nil, i, false
	}
	return []Node{Flag{Name: name, DefaultValueToken: def}}, j, true
}

// getFlag matches `get(g:, 'name'[, default])` as the whole right-hand
// side of an assignment.
func getFlag(expr string) (Flag, bool) {
	if !strings.HasPrefix(expr, "get(") || matchingParen(expr, 3) != len(expr)-1 {
		return Flag{}, false
	}
	args := splitArgs(expr[4 : len(expr)-1])
	if len(args) < 2 || len(args) > 3 || args[0] != "g:" {
		return Flag{}, false
	}
	key, ok := unquote(args[1])
	if !ok {
		return Flag{}, false
	}
	flag := Flag{Name: "g:" + key}
	if len(args) == 3 {
		def := args[2]
		flag.DefaultValueToken = &def
	}
	return flag, true
}

// recognizeCallFlag matches maktaba-style `call Flag('name'[, default])`,
// including method calls such as `call s:plugin.Flag(...)`.
func recognizeCallFlag(lines []Line, i int) ([]Node, int, bool) {
	text := lines[i].Text
	m := callHeader.FindStringSubmatchIndex(text)
	if m == nil {
		return nil, i, false
	}
	fn := text[m[2]:m[3]]
	if dot := strings.LastIndex(fn, "."); dot >= 0 {
		fn = fn[dot+1:]
	}
	if fn != "Flag" {
		return nil, i, false
	}
	open := m[1] - 1
	closing := matchingParen(text, open)
	if closing < 0 {
		return nil, i, false
	}
	args := splitArgs(text[open+1 : closing])
	if len(args) == 0 {
		return nil, i, false
	}
	name, ok := unquote(args[0])
	if !ok {
		return nil, i, false
	}
	flag := Flag{Name: name}
	if len(args) > 1 {
		def := args[1]
		flag.DefaultValueToken = &def
	}
	return []Node{flag}, i + 1, true
}
