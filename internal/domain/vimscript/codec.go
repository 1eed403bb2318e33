package vimscript

import (
	"encoding/json"
	"fmt"
)

// nodeRecord is the tagged wire form of a Node, shared by the JSON and
// YAML encoders and by the metadata store.
type nodeRecord struct {
	Kind         Kind     `json:"kind" yaml:"kind"`
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Args         []string `json:"args,omitempty" yaml:"args,omitempty"`
	Modifiers    []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	InitValue    string   `json:"init_value,omitempty" yaml:"init_value,omitempty"`
	DefaultValue *string  `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	Doc          *string  `json:"doc,omitempty" yaml:"doc,omitempty"`
}

type moduleRecord struct {
	Path  *string      `json:"path,omitempty" yaml:"path,omitempty"`
	Doc   *string      `json:"doc,omitempty" yaml:"doc,omitempty"`
	Nodes []nodeRecord `json:"nodes" yaml:"nodes"`
}

func encodeNode(n Node) nodeRecord {
	rec := nodeRecord{Kind: KindOf(n), Name: NameOf(n), Doc: DocOf(n)}
	switch v := n.(type) {
	case Function:
		rec.Args = v.Args
		rec.Modifiers = v.Modifiers
	case Command:
		rec.Modifiers = v.Modifiers
	case Variable:
		rec.InitValue = v.InitValueToken
	case Flag:
		rec.DefaultValue = v.DefaultValueToken
	}
	return rec
}

func decodeNode(rec nodeRecord) (Node, error) {
	orEmpty := func(s []string) []string {
		if s == nil {
			return []string{}
		}
		return s
	}
	switch rec.Kind {
	case KindDoc:
		var doc string
		if rec.Doc != nil {
			doc = *rec.Doc
		}
		return StandaloneDocComment{Doc: doc}, nil
	case KindFunction:
		return Function{Name: rec.Name, Args: orEmpty(rec.Args), Modifiers: orEmpty(rec.Modifiers), Doc: rec.Doc}, nil
	case KindCommand:
		return Command{Name: rec.Name, Modifiers: orEmpty(rec.Modifiers), Doc: rec.Doc}, nil
	case KindVariable:
		return Variable{Name: rec.Name, InitValueToken: rec.InitValue, Doc: rec.Doc}, nil
	case KindFlag:
		return Flag{Name: rec.Name, DefaultValueToken: rec.DefaultValue, Doc: rec.Doc}, nil
	}
	return nil, fmt.Errorf("unknown node kind %q", rec.Kind)
}

func (m Module) record() moduleRecord {
	rec := moduleRecord{Path: m.Path, Doc: m.Doc, Nodes: make([]nodeRecord, len(m.Nodes))}
	for i, n := range m.Nodes {
		rec.Nodes[i] = encodeNode(n)
	}
	return rec
}

// MarshalJSON encodes nodes with a "kind" discriminator.
func (m Module) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.record())
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (m *Module) UnmarshalJSON(data []byte) error {
	var rec moduleRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	out := Module{Path: rec.Path, Doc: rec.Doc}
	for i, nr := range rec.Nodes {
		n, err := decodeNode(nr)
		if err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		out.Nodes = append(out.Nodes, n)
	}
	*m = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m Module) MarshalYAML() (interface{}, error) {
	return m.record(), nil
}

// MarshalJSON keeps "content" an array even for an empty plugin.
func (p Plugin) MarshalJSON() ([]byte, error) {
	content := p.Content
	if content == nil {
		content = []Module{}
	}
	return json.Marshal(struct {
		Content []Module `json:"content"`
	}{content})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (p *Plugin) UnmarshalJSON(data []byte) error {
	var raw struct {
		Content []Module `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Content = nil
	if len(raw.Content) > 0 {
		p.Content = raw.Content
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p Plugin) MarshalYAML() (interface{}, error) {
	content := p.Content
	if content == nil {
		content = []Module{}
	}
	return struct {
		Content []Module `yaml:"content"`
	}{content}, nil
}
