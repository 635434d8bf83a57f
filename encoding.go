package hmat

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/hmat/codec"
	"github.com/hupe1980/hmat/internal/compress"
)

// The structured form of a matrix lists its rows in storage order, each
// tagged with its element type and holding an array of nullable values:
//
//	{"rows":[{"type":"uint","values":[0,null,2]},{"type":"float32","values":[0.5]}]}
type matrixDoc struct {
	Rows []rowDoc `json:"rows" yaml:"rows"`
}

type rowDoc struct {
	Type   string `json:"type" yaml:"type"`
	Values any    `json:"values" yaml:"values"`
}

type matrixRawDoc struct {
	Rows []rowRawDoc `json:"rows" yaml:"rows"`
}

type rowRawDoc struct {
	Type   string    `json:"type" yaml:"type"`
	Values codec.Raw `json:"values" yaml:"values"`
}

func (m *HMat) doc() matrixDoc {
	d := matrixDoc{Rows: make([]rowDoc, len(m.rows))}
	for i, r := range m.rows {
		d.Rows[i] = rowDoc{Type: r.key().String(), Values: r.encodable()}
	}
	return d
}

// load decodes every row of d into fresh rows and copies them into the rows
// of m only when all of them decoded, so views of m stay live. The row types of m are the schema: d must list the
// same types in the same order.
func (m *HMat) load(d *matrixRawDoc, c codec.Codec) error {
	if len(d.Rows) != len(m.rows) {
		return fmt.Errorf("%w: payload has %d rows, matrix %s has %d",
			ErrShapeMismatch, len(d.Rows), m, len(m.rows))
	}

	decoded := make([]row, len(m.rows))
	for i, r := range m.rows {
		rd := &d.Rows[i]
		if rd.Type != r.key().String() {
			return fmt.Errorf("%w: row %d is %q, matrix expects %s",
				ErrShapeMismatch, i, rd.Type, r.key())
		}
		if rd.Values.IsZero() {
			decoded[i] = r.emptyRow()
			continue
		}
		nr, err := r.decode(&rd.Values, c)
		if err != nil {
			return fmt.Errorf("%w: row %d (%s): %w", ErrInvalidEncoding, i, r.key(), err)
		}
		decoded[i] = nr
	}

	for i, r := range m.rows {
		r.assign(decoded[i])
	}
	return nil
}

// MarshalJSON encodes the structured form of m.
func (m *HMat) MarshalJSON() ([]byte, error) {
	return codec.JSON{}.Marshal(m.doc())
}

// UnmarshalJSON decodes the structured form into m. The receiver must
// already declare the row types, e.g. be built with New and Extend.
func (m *HMat) UnmarshalJSON(b []byte) error {
	var d matrixRawDoc
	if err := (codec.JSON{}).Unmarshal(b, &d); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	return m.load(&d, codec.JSON{})
}

// MarshalYAML encodes the structured form of m.
func (m *HMat) MarshalYAML() (any, error) {
	return m.doc(), nil
}

// UnmarshalYAML decodes the structured form into m. The receiver must
// already declare the row types.
func (m *HMat) UnmarshalYAML(n *yaml.Node) error {
	var d matrixRawDoc
	if err := n.Decode(&d); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	return m.load(&d, codec.YAML{})
}

// Encoded header: magic | version | compression | len(codec name) | codec name.
var magic = []byte("HMAT")

const encodingVersion = 1

// Marshal encodes m into a self-describing payload: a short header naming
// the codec and compression, followed by the structured form encoded with
// that codec and compressed as configured.
//
// The codec and compression default to the options m was created with;
// optFns override them for this call.
func Marshal(m *HMat, optFns ...Option) ([]byte, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	opts := buildOptions(m.settings(), optFns)

	start := time.Now()
	out, err := marshal(m, opts)
	opts.metricsCollector.RecordMarshal("marshal", len(out), time.Since(start), err)
	opts.logger.LogMarshal("marshal", opts.codec.Name(), len(out), err)
	return out, err
}

func marshal(m *HMat, opts options) ([]byte, error) {
	name := opts.codec.Name()
	if len(name) == 0 || len(name) > 255 {
		return nil, fmt.Errorf("%w: codec name %q", ErrInvalidEncoding, name)
	}

	payload, err := opts.codec.Marshal(m.doc())
	if err != nil {
		return nil, err
	}
	block, err := compress.Block(payload, opts.compression)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(magic) + 3 + len(name) + len(block))
	buf.Write(magic)
	buf.WriteByte(encodingVersion)
	buf.WriteByte(byte(opts.compression))
	buf.WriteByte(byte(len(name)))
	buf.WriteString(name)
	buf.Write(block)
	return buf.Bytes(), nil
}

// Unmarshal decodes a payload produced by Marshal into into.
//
// Element types cannot be recovered from their names, so into declares the
// schema: it must have the same row types, in the same storage order, as the
// encoded matrix. On any error into is left unchanged. On success the rows
// of into are overwritten in place, so views built from into before the call
// read the decoded values.
func Unmarshal(data []byte, into *HMat) error {
	if into == nil {
		return ErrNilMatrix
	}
	opts := into.settings()

	start := time.Now()
	name, err := unmarshal(data, into)
	opts.metricsCollector.RecordMarshal("unmarshal", len(data), time.Since(start), err)
	opts.logger.LogMarshal("unmarshal", name, len(data), err)
	return err
}

func unmarshal(data []byte, into *HMat) (string, error) {
	if len(data) < len(magic)+3 || !bytes.Equal(data[:len(magic)], magic) {
		return "", fmt.Errorf("%w: missing header", ErrInvalidEncoding)
	}
	p := data[len(magic):]
	if p[0] != encodingVersion {
		return "", fmt.Errorf("%w: unsupported version %d", ErrInvalidEncoding, p[0])
	}
	comp := Compression(p[1])
	if !comp.Valid() {
		return "", fmt.Errorf("%w: unknown compression %d", ErrInvalidEncoding, p[1])
	}
	nameLen := int(p[2])
	p = p[3:]
	if len(p) < nameLen {
		return "", fmt.Errorf("%w: truncated header", ErrInvalidEncoding)
	}
	name := string(p[:nameLen])
	p = p[nameLen:]

	c, ok := codec.ByName(name)
	if !ok {
		return name, fmt.Errorf("%w: unknown codec %q", ErrInvalidEncoding, name)
	}

	payload, err := compress.Unblock(p, comp)
	if err != nil {
		return name, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}

	var d matrixRawDoc
	if err := c.Unmarshal(payload, &d); err != nil {
		return name, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	return name, into.load(&d, c)
}
