package vimscript

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleModule = `
""
" Sample plugin.
echo 'loaded'

""
" Adds things.
func! sample#Add(a, b) abort
  return a:a + a:b
endfunc

command -nargs=+ Add echo sample#Add(<f-args>)
let g:sample_debug = get(g:, 'sample_debug', 0)
let s:cache = {}
""
" Dangling.
`

func TestModuleJSON_KindDiscriminator(t *testing.T) {
	mod := ParseModuleText(sampleModule)
	data, err := json.Marshal(mod)
	require.NoError(t, err)

	var raw struct {
		Doc   string           `json:"doc"`
		Nodes []map[string]any `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Sample plugin.", raw.Doc)

	kinds := make([]string, len(raw.Nodes))
	for i, n := range raw.Nodes {
		kinds[i] = n["kind"].(string)
	}
	assert.Equal(t, []string{"function", "command", "flag", "variable", "doc"}, kinds)
	assert.Equal(t, "0", raw.Nodes[2]["default_value"])
	assert.Equal(t, "{}", raw.Nodes[3]["init_value"])
}

func TestModuleJSON_RoundTrip(t *testing.T) {
	path := "autoload/sample.vim"
	mod := ParseModuleText(sampleModule)
	mod.Path = &path

	data, err := json.Marshal(mod)
	require.NoError(t, err)
	var back Module
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, mod, back)
}

func TestModuleJSON_UnknownKind(t *testing.T) {
	var m Module
	err := json.Unmarshal([]byte(`{"nodes":[{"kind":"macro"}]}`), &m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "macro")
}

func TestPluginJSON_EmptyContent(t *testing.T) {
	data, err := json.Marshal(Plugin{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[]}`, string(data))

	var p Plugin
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, Plugin{}, p)
}

func TestPluginYAML(t *testing.T) {
	path := "plugin/x.vim"
	p := Plugin{Content: []Module{{Path: &path, Nodes: []Node{Command{Name: "X", Modifiers: []string{"-bar"}}}}}}
	data, err := yaml.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	content := raw["content"].([]any)
	require.Len(t, content, 1)
	mod := content[0].(map[string]any)
	assert.Equal(t, "plugin/x.vim", mod["path"])
	node := mod["nodes"].([]any)[0].(map[string]any)
	assert.Equal(t, "command", node["kind"])
	assert.Equal(t, []any{"-bar"}, node["modifiers"])
}

func TestPlugin_Stats(t *testing.T) {
	p := Plugin{Content: []Module{ParseModuleText(sampleModule), ParseModuleText("let x = 1")}}
	assert.Equal(t, map[Kind]int{
		KindFunction: 1,
		KindCommand:  1,
		KindFlag:     1,
		KindVariable: 2,
		KindDoc:      1,
	}, p.Stats())
}
