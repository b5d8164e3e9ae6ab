package provider

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MetadataKey is the transport type marker the GraphQL API attaches to every
// object. It is never an agent role.
const MetadataKey = "__typename"

// IsMetadataKey reports whether key is transport metadata rather than data.
func IsMetadataKey(key string) bool { return key == MetadataKey }

// AgentMap is an insertion-ordered map from agent role to a per-role value.
// The zero value is an empty map ready for use. Order survives JSON and YAML
// round trips. Copies share storage; use MapAgents to get an independent copy
// before mutating one.
type AgentMap[T any] struct {
	keys   []string
	values map[string]T
}

// Len returns the number of entries.
func (m AgentMap[T]) Len() int { return len(m.keys) }

// Keys returns the roles in insertion order.
func (m AgentMap[T]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Get returns the value stored for key.
func (m AgentMap[T]) Get(key string) (T, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m AgentMap[T]) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Set stores v under key. A new key is appended; an existing one keeps its
// position.
func (m *AgentMap[T]) Set(key string, v T) {
	if m.values == nil {
		m.values = make(map[string]T)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Each calls fn for every entry in order until fn returns false.
func (m AgentMap[T]) Each(fn func(key string, v T) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// MapAgents builds a new map by applying fn to every entry of m.
func MapAgents[T, U any](m AgentMap[T], fn func(key string, v T) U) AgentMap[U] {
	var out AgentMap[U]
	for _, k := range m.keys {
		out.Set(k, fn(k, m.values[k]))
	}
	return out
}

func (m AgentMap[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping key order. Null entries and the
// metadata key are skipped.
func (m *AgentMap[T]) UnmarshalJSON(data []byte) error {
	*m = AgentMap[T]{}

	return decodeObject(data, func(key string, raw json.RawMessage) error {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("agents: %q: %w", key, err)
		}
		m.Set(key, v)
		return nil
	})
}

// decodeObject walks a JSON object in document order, calling fn for each
// non-null member that is not transport metadata. A JSON null decodes as an
// empty object.
func decodeObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%q: %w", key, err)
		}
		if IsMetadataKey(key) || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	_, err = dec.Token()
	return err
}

func (m AgentMap[T]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		var val yaml.Node
		if err := val.Encode(m.values[k]); err != nil {
			return nil, fmt.Errorf("agent %q: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&val,
		)
	}
	return node, nil
}

func (m *AgentMap[T]) UnmarshalYAML(value *yaml.Node) error {
	*m = AgentMap[T]{}
	if value.Kind == 0 || value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("agents: line %d: expected mapping", value.Line)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		val := value.Content[i+1]
		if IsMetadataKey(key) || val.Tag == "!!null" {
			continue
		}
		var v T
		if err := val.Decode(&v); err != nil {
			return fmt.Errorf("agents: %q: %w", key, err)
		}
		m.Set(key, v)
	}
	return nil
}
