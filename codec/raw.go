package codec

import (
	"errors"

	"gopkg.in/yaml.v3"
)

// Raw captures an encoded value whose Go type is only known after the
// surrounding document was decoded.
//
// JSON-based codecs hand Raw the undecoded bytes; the YAML codec hands it the
// parsed node. Decode finishes the job once the target type is known.
type Raw struct {
	data []byte
	node *yaml.Node
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Raw) UnmarshalJSON(b []byte) error {
	r.data = append(r.data[:0], b...)
	r.node = nil
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Raw) UnmarshalYAML(n *yaml.Node) error {
	cp := *n
	r.node = &cp
	r.data = nil
	return nil
}

// IsZero reports whether nothing was captured.
func (r *Raw) IsZero() bool {
	return r.node == nil && len(r.data) == 0
}

// Decode decodes the captured value into v using c.
func (r *Raw) Decode(c Codec, v any) error {
	switch {
	case r.node != nil:
		return r.node.Decode(v)
	case len(r.data) > 0:
		if c == nil {
			c = Default
		}
		return c.Unmarshal(r.data, v)
	default:
		return errors.New("codec: raw value is empty")
	}
}
