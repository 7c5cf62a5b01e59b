package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// ModelDescriptor is the server-declared shape of a predictive model.
type ModelDescriptor struct {
	Key         string   `json:"key,omitempty"`
	DisplayName string   `json:"display_name"`
	Fields      []string `json:"fields"`
}

// Name returns the display name, or the key when the service sent none.
func (m ModelDescriptor) Name() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Key
}

// CategoricalFieldSet holds the field identifiers rendered as enumerated choices.
type CategoricalFieldSet map[string]struct{}

func NewCategoricalFieldSet(names ...string) CategoricalFieldSet {
	s := make(CategoricalFieldSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s CategoricalFieldSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members in sorted order.
func (s CategoricalFieldSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s CategoricalFieldSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *CategoricalFieldSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewCategoricalFieldSet(names...)
	return nil
}

// FieldKind discriminates the FieldKindSpec union.
type FieldKind string

const (
	FieldKindNumeric    FieldKind = "numeric"
	FieldKindEnumerated FieldKind = "enumerated"
)

// FieldOption is one labelled choice of an enumerated field.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldKindSpec is an optional per-field declaration sent by the scoring service.
// Max == 0 means the numeric field has no upper bound.
type FieldKindSpec struct {
	Kind    FieldKind     `json:"kind"`
	Min     float64       `json:"min,omitempty"`
	Max     float64       `json:"max,omitempty"`
	Options []FieldOption `json:"options,omitempty"`
}

// Catalog is the decoded /models response. Models keep the order the service
// declared them in.
type Catalog struct {
	Models            []ModelDescriptor
	CategoricalFields CategoricalFieldSet
	FieldKinds        map[string]FieldKindSpec
}

// Lookup finds a model by key.
func (c *Catalog) Lookup(key string) (ModelDescriptor, bool) {
	if c == nil {
		return ModelDescriptor{}, false
	}
	for _, m := range c.Models {
		if m.Key == key {
			return m, true
		}
	}
	return ModelDescriptor{}, false
}

// Empty reports whether the catalog offers no models.
func (c *Catalog) Empty() bool {
	return c == nil || len(c.Models) == 0
}

type catalogWire struct {
	Models            json.RawMessage          `json:"models"`
	CategoricalFields CategoricalFieldSet      `json:"categorical_fields"`
	FieldKinds        map[string]FieldKindSpec `json:"field_kinds,omitempty"`
}

// UnmarshalJSON walks the models object token by token so that the declared
// order survives decoding.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	var wire catalogWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	c.CategoricalFields = wire.CategoricalFields
	if c.CategoricalFields == nil {
		c.CategoricalFields = CategoricalFieldSet{}
	}
	c.FieldKinds = wire.FieldKinds
	c.Models = nil

	raw := bytes.TrimSpace(wire.Models)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("catalog models: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("catalog models: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("catalog models: %w", err)
		}
		key, _ := keyTok.(string)

		var desc ModelDescriptor
		if err := dec.Decode(&desc); err != nil {
			return fmt.Errorf("catalog model %q: %w", key, err)
		}
		desc.Key = key
		c.Models = append(c.Models, desc)
	}

	return nil
}

// MarshalJSON writes the catalog back in the wire shape, preserving model order.
func (c Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"models":{`)
	for i, m := range c.Models {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(ModelDescriptor{DisplayName: m.DisplayName, Fields: m.Fields})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteString(`},"categorical_fields":`)

	cats := c.CategoricalFields
	if cats == nil {
		cats = CategoricalFieldSet{}
	}
	catJSON, err := cats.MarshalJSON()
	if err != nil {
		return nil, err
	}
	buf.Write(catJSON)

	if len(c.FieldKinds) > 0 {
		kinds, err := json.Marshal(c.FieldKinds)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"field_kinds":`)
		buf.Write(kinds)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
