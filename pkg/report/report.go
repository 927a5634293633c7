// Package report accumulates named parameters discovered during detection
// and serializes them for the hardware inventory.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Param is one reported key/value pair. Values are kept exactly as
// formatted by the caller.
type Param struct {
	Key   string
	Value string
}

// Document is an ordered set of parameters under a section name such as
// "ethernet". Keys are unique; adding an existing key replaces its value in
// place.
type Document struct {
	Section string
	params  []Param
}

// New creates an empty document for section.
func New(section string) *Document {
	return &Document{Section: section}
}

// Add sets key to value.
func (d *Document) Add(key, value string) {
	for i := range d.params {
		if d.params[i].Key == key {
			d.params[i].Value = value
			return
		}
	}
	d.params = append(d.params, Param{Key: key, Value: value})
}

// Addf sets key to the formatted value.
func (d *Document) Addf(key, format string, args ...any) {
	d.Add(key, fmt.Sprintf(format, args...))
}

// AddNotNull sets key unless value is empty, in which case the entry is
// omitted.
func (d *Document) AddNotNull(key, value string) {
	if value == "" {
		return
	}
	d.Add(key, value)
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (string, bool) {
	for _, p := range d.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Params returns a copy of the parameters in insertion order.
func (d *Document) Params() []Param {
	return append([]Param(nil), d.params...)
}

// Len reports the number of parameters.
func (d *Document) Len() int { return len(d.params) }

// MarshalYAML renders the section as a mapping, preserving insertion order.
// Values are emitted as plain scalars, the way the inventory expects them.
func (d *Document) MarshalYAML() (interface{}, error) {
	body := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range d.params {
		body.Content = append(body.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: p.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Value: p.Value},
		)
	}
	if d.Section == "" {
		return body, nil
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: d.Section},
			body,
		},
	}, nil
}

// WriteYAML writes the document as YAML.
func (d *Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// MarshalJSON renders the document as an object with keys in insertion
// order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var body bytes.Buffer
	body.WriteByte('{')
	for i, p := range d.params {
		if i > 0 {
			body.WriteByte(',')
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		body.Write(k)
		body.WriteByte(':')
		body.Write(v)
	}
	body.WriteByte('}')

	if d.Section == "" {
		return body.Bytes(), nil
	}
	sec, err := json.Marshal(d.Section)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, body.Len()+len(sec)+3)
	out = append(out, '{')
	out = append(out, sec...)
	out = append(out, ':')
	out = append(out, body.Bytes()...)
	out = append(out, '}')
	return out, nil
}

// WriteJSON writes the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
