package settingsapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/germanamz/providerctl/pkg/provider"
)

// Normalize returns a copy of v with every "__typename" key removed from
// nested maps, at any depth. Slices are walked element by element; other
// values are returned unchanged. Normalize is idempotent.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			if provider.IsMetadataKey(k) {
				continue
			}
			out[k] = Normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	default:
		return v
	}
}

// NormalizeJSON is Normalize over an encoded document. Unlike a round trip
// through map[string]any it keeps object key order, which the agent maps
// depend on.
func NormalizeJSON(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var buf bytes.Buffer
	if err := copyValue(dec, &buf); err != nil {
		return nil, fmt.Errorf("settingsapi: normalize: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("settingsapi: normalize: trailing data")
	}
	return buf.Bytes(), nil
}

func copyValue(dec *json.Decoder, buf *bytes.Buffer) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch d := tok.(type) {
	case json.Delim:
		switch d {
		case '{':
			return copyObject(dec, buf)
		case '[':
			return copyArray(dec, buf)
		default:
			return fmt.Errorf("unexpected %q", d)
		}
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

func copyObject(dec *json.Decoder, buf *bytes.Buffer) error {
	buf.WriteByte('{')
	first := true
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}

		if provider.IsMetadataKey(key) {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
			continue
		}

		if !first {
			buf.WriteByte(',')
		}
		first = false

		kb, _ := json.Marshal(key)
		buf.Write(kb)
		buf.WriteByte(':')
		if err := copyValue(dec, buf); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func copyArray(dec *json.Decoder, buf *bytes.Buffer) error {
	buf.WriteByte('[')
	for i := 0; dec.More(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := copyValue(dec, buf); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	buf.WriteByte(']')
	return nil
}
