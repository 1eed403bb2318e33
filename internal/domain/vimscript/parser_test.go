package vimscript

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Module parser: doc attachment, module docs, node order
// Expectation: every recognized declaration becomes one node in source order,
// with the doc block directly above it (blank lines allowed) attached.
// =============================================================================

func strp(s string) *string { return &s }

func TestParseModule_Empty(t *testing.T) {
	assert.Equal(t, Module{}, ParseModuleText(""))
}

func TestParseModule_NonDocComment(t *testing.T) {
	assert.Equal(t, Module{}, ParseModuleText(`" A comment`))
}

func TestParseModule_OnlyModuleDoc(t *testing.T) {
	code := "\n\"\"\n\" Foo\n"
	assert.Equal(t, Module{Doc: strp("Foo")}, ParseModuleText(code))
}

func TestParseModule_FileHeaderDoc(t *testing.T) {
	code := "\"\"\n\" File header comment\n"
	mod := ParseModuleText(code)
	assert.Equal(t, strp("File header comment"), mod.Doc)
	assert.Empty(t, mod.Nodes)
}

func TestParseModule_DocAboveFunctionAfterBlank(t *testing.T) {
	code := "\n\"\"\n\" Does something cool.\n\nfunc MyFunc() abort\n  ...\nendfunc\n"
	assert.Equal(t, Module{
		Nodes: []Node{Function{
			Name:      "MyFunc",
			Args:      []string{},
			Modifiers: []string{"abort"},
			Doc:       strp("Does something cool."),
		}},
	}, ParseModuleText(code))
}

func TestParseModule_DocAndFunction(t *testing.T) {
	code := `
""
" Does a thing.
"
" Call and enjoy.
func MyFunc()
  return 1
endfunc
`
	assert.Equal(t, Module{
		Nodes: []Node{Function{
			Name:      "MyFunc",
			Args:      []string{},
			Modifiers: []string{},
			Doc:       strp("Does a thing.\n\nCall and enjoy."),
		}},
	}, ParseModuleText(code))
}

func TestParseModule_FuncWithArgsAndModifiers(t *testing.T) {
	code := `
func! MyFunc(arg1, ...) range dict abort
  return 1
endfunc
`
	mod := ParseModuleText(code)
	require.Len(t, mod.Nodes, 1)
	assert.Equal(t, Function{
		Name:      "MyFunc",
		Args:      []string{"arg1", "..."},
		Modifiers: []string{"!", "range", "dict", "abort"},
	}, mod.Nodes[0])
}

func TestParseModule_BarJoinedFunctions(t *testing.T) {
	code := "func FuncOne() | endfunc\nfunc FuncTwo() | endfunc"
	mod := ParseModuleText(code)
	require.Len(t, mod.Nodes, 2)
	assert.Equal(t, "FuncOne", NameOf(mod.Nodes[0]))
	assert.Equal(t, "FuncTwo", NameOf(mod.Nodes[1]))
}

func TestParseModule_ScopedFunctionNames(t *testing.T) {
	for _, name := range []string{"foo#bar#Baz", "s:SomeFunc", "<SID>Helper", "g:Global"} {
		mod := ParseModuleText("func " + name + "() | endfunc")
		require.Len(t, mod.Nodes, 1, name)
		assert.Equal(t, name, NameOf(mod.Nodes[0]))
	}
}

func TestParseModule_NestedFunctionBodySkipped(t *testing.T) {
	code := `
function Outer()
  let l:thing = {}
  function l:thing.Inner()
    return 1
  endfunction
  return l:thing
endfunction
let g:after = 1
`
	mod := ParseModuleText(code)
	require.Len(t, mod.Nodes, 2)
	assert.Equal(t, "Outer", NameOf(mod.Nodes[0]))
	assert.Equal(t, Variable{Name: "g:after", InitValueToken: "1"}, mod.Nodes[1])
}

func TestParseModule_MissingEndfunctionConsumesRest(t *testing.T) {
	code := `
func Broken()
  return 1
""
" Lost doc.
let g:never = 1
`
	mod := ParseModuleText(code)
	require.Len(t, mod.Nodes, 1)
	assert.Equal(t, "Broken", NameOf(mod.Nodes[0]))
	assert.Nil(t, mod.Doc)
}

func TestParseModule_DocBeforeStatementIsModuleDoc(t *testing.T) {
	code := `
""
" Actually a file header.
echo 'Hi'
func MyFunc() | endfunc
`
	mod := ParseModuleText(code)
	assert.Equal(t, strp("Actually a file header."), mod.Doc)
	require.Len(t, mod.Nodes, 1)
	assert.Nil(t, DocOf(mod.Nodes[0]))
}

func TestParseModule_InterveningLineMakesDocStandalone(t *testing.T) {
	code := `
func First() | endfunc
""
" Orphan.
echo 'x'
func Second() | endfunc
`
	mod := ParseModuleText(code)
	require.Len(t, mod.Nodes, 3)
	assert.Equal(t, StandaloneDocComment{Doc: "Orphan."}, mod.Nodes[1])
	assert.Equal(t, "Second", NameOf(mod.Nodes[2]))
	assert.Nil(t, DocOf(mod.Nodes[2]))
	assert.Nil(t, mod.Doc)
}

func TestParseModule_TwoDocs(t *testing.T) {
	code := `
""
" One doc

""
" Another doc
`
	assert.Equal(t, Module{
		Doc:   strp("One doc"),
		Nodes: []Node{StandaloneDocComment{Doc: "Another doc"}},
	}, ParseModuleText(code))
}

func TestParseModule_CommentThenDoc(t *testing.T) {
	code := `
" Normal comment

""
" Module doc
`
	assert.Equal(t, Module{Doc: strp("Module doc")}, ParseModuleText(code))
}

func TestParseModule_DifferentDocIndentation(t *testing.T) {
	code := "\"\"\n\" One doc\n \" Ignored comment\n"
	assert.Equal(t, Module{Doc: strp("One doc")}, ParseModuleText(code))
}

func TestParseModule_Commands(t *testing.T) {
	code := `
command SomeCommand echo "Hi"

""
" Do a complex thing.
command -range -bang -nargs=+ -bar SomeComplexCommand call SomeHelper() | echo 'Hi'
`
	assert.Equal(t, Module{
		Nodes: []Node{
			Command{Name: "SomeCommand", Modifiers: []string{}},
			Command{
				Name:      "SomeComplexCommand",
				Modifiers: []string{"-range", "-bang", "-nargs=+", "-bar"},
				Doc:       strp("Do a complex thing."),
			},
		},
	}, ParseModuleText(code))
}

func TestParseModule_Variables(t *testing.T) {
	code := `
let somevar = 1
""
" Doc for first variable.
let g:somevar = 'xyz' | let s:othervar = system("ls")
`
	assert.Equal(t, []Node{
		Variable{Name: "somevar", InitValueToken: "1"},
		Variable{Name: "g:somevar", InitValueToken: "'xyz'", Doc: strp("Doc for first variable.")},
		Variable{Name: "s:othervar", InitValueToken: `system("ls")`},
	}, ParseModuleText(code).Nodes)
}

func TestParseModule_ContinuationLines(t *testing.T) {
	code := `
let g:foo_list = [
      \ 'a',
      "\ the second one
      \ 'b',
      \ ]
`
	assert.Equal(t, []Node{
		Variable{Name: "g:foo_list", InitValueToken: "[ 'a', 'b', ]"},
	}, ParseModuleText(code).Nodes)
}

func TestParseModule_MaktabaFlags(t *testing.T) {
	code := `
let [s:plugin, s:enter] = plugin#Enter(expand('<sfile>:p'))
if !s:enter
  finish
endif

""
" A flag for the value of a thing.
call s:plugin.Flag('someflag', 'somedefault')
call Flag('bare')
call Flag("some\"'flag֎")
`
	assert.Equal(t, []Node{
		Variable{Name: "s:plugin", InitValueToken: "plugin#Enter(expand('<sfile>:p'))[0]"},
		Variable{Name: "s:enter", InitValueToken: "plugin#Enter(expand('<sfile>:p'))[1]"},
		Flag{Name: "someflag", DefaultValueToken: strp("'somedefault'"), Doc: strp("A flag for the value of a thing.")},
		Flag{Name: "bare"},
		Flag{Name: `some"'flag֎`},
	}, ParseModuleText(code).Nodes)
}

func TestParseModule_GuardFlag(t *testing.T) {
	code := `
""
" Whether to frobnicate.
if !exists('g:foo_frobnicate')
  let g:foo_frobnicate = 1
endif
if !exists("g:foo_style") | let g:foo_style = 'fancy' | endif
let g:foo_level = get(g:, 'foo_level', 3)
`
	assert.Equal(t, []Node{
		Flag{Name: "g:foo_frobnicate", DefaultValueToken: strp("1"), Doc: strp("Whether to frobnicate.")},
		Flag{Name: "g:foo_style", DefaultValueToken: strp("'fancy'")},
		Flag{Name: "g:foo_level", DefaultValueToken: strp("3")},
	}, ParseModuleText(code).Nodes)
}

func TestParseModule_LoadGuardIsNotAFlag(t *testing.T) {
	code := `
if exists('g:loaded_foo')
  finish
endif
let g:loaded_foo = 1
`
	assert.Equal(t, []Node{
		Variable{Name: "g:loaded_foo", InitValueToken: "1"},
	}, ParseModuleText(code).Nodes)
}

func TestParseModule_CommentAndCall(t *testing.T) {
	code := "\n\" Some normal comment.\ncall SomeFunc()\n"
	assert.Equal(t, Module{}, ParseModuleText(code))
}

func TestParseModule_Unicode(t *testing.T) {
	code := "\n\"\"\n\" Fun stuff 🎈 ( ͡° ͜ʖ ͡°)\n"
	assert.Equal(t, Module{Doc: strp("Fun stuff 🎈 ( ͡° ͜ʖ ͡°)")}, ParseModuleText(code))
}

func TestParseModule_CRLF(t *testing.T) {
	code := "\"\"\r\n\" Windows doc.\r\nfunc Win()\r\nendfunc\r\n"
	mod := ParseModuleText(code)
	require.Len(t, mod.Nodes, 1)
	assert.Equal(t, strp("Windows doc."), DocOf(mod.Nodes[0]))
}

func TestParseModule_Deterministic(t *testing.T) {
	code := `
""
" Header.

""
" Docs.
function! foo#Bar(a, b) abort
endfunction
command! -nargs=* Foo call foo#Bar(<f-args>)
let g:foo = get(g:, 'foo', {})
`
	first := ParseModuleText(code)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ParseModuleText(code))
	}
}

func TestParseModuleFile_SetsPath(t *testing.T) {
	fsys := fstest.MapFS{
		"autoload/foo.vim": {Data: []byte("func foo#Bar()\n  sleep 1\nendfunc\n")},
	}
	mod, err := ParseModuleFile(fsys, "autoload/foo.vim")
	require.NoError(t, err)
	assert.Equal(t, strp("autoload/foo.vim"), mod.Path)
	require.Len(t, mod.Nodes, 1)
	assert.Equal(t, "foo#Bar", NameOf(mod.Nodes[0]))
}

func TestParseModuleFile_ReadError(t *testing.T) {
	_, err := ParseModuleFile(fstest.MapFS{}, "missing.vim")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.vim")
}
