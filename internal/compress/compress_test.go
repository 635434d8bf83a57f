package compress

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlock_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte(`{"type":"int32","values":[1,null,3]}`), 200)

	for _, typ := range []Type{None, LZ4, ZSTD} {
		t.Run(typ.String(), func(t *testing.T) {
			block, err := Block(data, typ)
			require.NoError(t, err)

			if typ != None {
				assert.Less(t, len(block), len(data)/2, "repeated data should compress well")
			}

			out, err := Unblock(block, typ)
			require.NoError(t, err)
			assert.Equal(t, data, out)
		})
	}
}

func TestBlock_Incompressible(t *testing.T) {
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i * 17 % 256)
	}

	block, err := Block(data, LZ4)
	require.NoError(t, err)

	out, err := Unblock(block, LZ4)
	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestBlock_Empty(t *testing.T) {
	for _, typ := range []Type{None, LZ4, ZSTD} {
		block, err := Block(nil, typ)
		require.NoError(t, err)

		out, err := Unblock(block, typ)
		require.NoError(t, err)
		assert.Empty(t, out)
	}
}

func TestBlock_UnknownType(t *testing.T) {
	_, err := Block([]byte("x"), Type(9))
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.False(t, Type(9).Valid())
	assert.Equal(t, "unknown(9)", Type(9).String())
}

func TestUnblock_Corrupt(t *testing.T) {
	_, err := Unblock([]byte{1, 2}, ZSTD)
	assert.ErrorIs(t, err, ErrCorrupt)

	block, err := Block(bytes.Repeat([]byte("abc"), 100), ZSTD)
	require.NoError(t, err)

	_, err = Unblock(block[:len(block)-4], ZSTD)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestUnblock_OversizedHeader(t *testing.T) {
	header := func(uncompressed, compressed uint32, payload []byte) []byte {
		out := make([]byte, headerSize, headerSize+len(payload))
		binary.LittleEndian.PutUint32(out[0:], uncompressed)
		binary.LittleEndian.PutUint32(out[4:], compressed)
		return append(out, payload...)
	}

	tests := []struct {
		name string
		typ  Type
		data []byte
	}{
		{"lz4 above max", LZ4, header(1<<32-1, 4, []byte{1, 2, 3, 4})},
		{"lz4 above ratio", LZ4, header(4*maxLZ4Ratio+1, 4, []byte{1, 2, 3, 4})},
		{"zstd above max", ZSTD, header(1<<32-1, 4, []byte{1, 2, 3, 4})},
		{"zstd garbage", ZSTD, header(1<<20, 4, []byte{1, 2, 3, 4})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unblock(tt.data, tt.typ)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestUnblock_ZSTDSizeMismatch(t *testing.T) {
	block, err := Block(bytes.Repeat([]byte("abc"), 1000), ZSTD)
	require.NoError(t, err)

	// Claim more output than the frame holds.
	binary.LittleEndian.PutUint32(block[0:], 4000)
	_, err = Unblock(block, ZSTD)
	assert.ErrorIs(t, err, ErrCorrupt)
}
