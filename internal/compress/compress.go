// Package compress implements the block compression used for encoded matrices.
package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None stores the payload as is.
	None Type = 0
	// LZ4 selects LZ4 block compression (fast).
	LZ4 Type = 1
	// ZSTD selects ZSTD block compression (better ratio).
	ZSTD Type = 2
)

// String returns the algorithm name.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Valid reports whether t is a known algorithm.
func (t Type) Valid() bool {
	return t <= ZSTD
}

var (
	// ErrCorrupt is returned when a block cannot be decoded.
	ErrCorrupt = errors.New("compress: corrupt block")
	// ErrUnknownType is returned for an unsupported algorithm id.
	ErrUnknownType = errors.New("compress: unknown compression type")
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxBlockSize))
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Block format: [UncompressedSize uint32][CompressedSize uint32][Data...]
// A CompressedSize of 0 means the data is stored uncompressed.
const headerSize = 8

// maxLZ4Ratio bounds the expansion of an LZ4 block, so a header cannot
// claim more output than its payload can produce.
const maxLZ4Ratio = 255

// MaxBlockSize is the largest uncompressed size a compressed block may
// declare. Larger inputs are stored uncompressed by Block.
const MaxBlockSize = 256 << 20

// Block compresses data with algorithm t and prepends the block header.
// Data that does not shrink by at least 10%, or is larger than MaxBlockSize,
// is stored uncompressed.
func Block(data []byte, t Type) ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
	}

	var (
		compressed []byte
		err        error
	)

	if len(data) <= MaxBlockSize {
		switch t {
		case LZ4:
			compressed, err = blockLZ4(data)
		case ZSTD:
			compressed = blockZSTD(data)
		}
	}
	if err != nil {
		return nil, err
	}
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		return frame(data, uint32(len(data)), 0), nil
	}

	return frame(compressed, uint32(len(data)), uint32(len(compressed))), nil
}

func frame(payload []byte, uncompressed, compressed uint32) []byte {
	out := make([]byte, headerSize+len(payload))
	binary.LittleEndian.PutUint32(out[0:], uncompressed)
	binary.LittleEndian.PutUint32(out[4:], compressed)
	copy(out[headerSize:], payload)
	return out
}

func blockLZ4(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	out := make([]byte, lz4.CompressBlockBound(len(data)))

	n, err := lz4.CompressBlock(data, out, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // incompressible
	}

	return out[:n], nil
}

func blockZSTD(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	enc := getZstdEncoder()
	defer putZstdEncoder(enc)

	return enc.EncodeAll(data, nil)
}

// Unblock reverses Block.
func Unblock(data []byte, t Type) ([]byte, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: block too small for header", ErrCorrupt)
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])

	if compressedSize == 0 {
		if uint64(len(data)) < headerSize+uint64(uncompressedSize) {
			return nil, fmt.Errorf("%w: block data too small", ErrCorrupt)
		}
		return data[headerSize : headerSize+uncompressedSize], nil
	}

	if uint64(len(data)) < headerSize+uint64(compressedSize) {
		return nil, fmt.Errorf("%w: compressed block data too small", ErrCorrupt)
	}

	if uncompressedSize > MaxBlockSize {
		return nil, fmt.Errorf("%w: uncompressed size %d exceeds %d", ErrCorrupt, uncompressedSize, MaxBlockSize)
	}
	payload := data[headerSize : headerSize+compressedSize]

	switch t {
	case LZ4:
		if uint64(uncompressedSize) > uint64(compressedSize)*maxLZ4Ratio {
			return nil, fmt.Errorf("%w: uncompressed size %d exceeds bound", ErrCorrupt, uncompressedSize)
		}
		result := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(payload, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return result, nil

	case ZSTD:
		var fh zstd.Header
		if err := fh.Decode(payload); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if fh.HasFCS && fh.FrameContentSize != uint64(uncompressedSize) {
			return nil, fmt.Errorf("%w: frame size %d, block header %d", ErrCorrupt, fh.FrameContentSize, uncompressedSize)
		}

		dec := getZstdDecoder()
		defer putZstdDecoder(dec)

		decoded, err := dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil

	case None:
		return nil, fmt.Errorf("%w: compressed payload without algorithm", ErrCorrupt)

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
	}
}
