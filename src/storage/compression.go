package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
)

// Compressor packs float64 columns with XOR encoding followed by zstd.
type Compressor struct {
	level   zstd.EncoderLevel
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// -----------------------------------------------------------------------------

// EncoderLevel maps the 1..4 level used in the config onto zstd's presets.
func EncoderLevel(level int) zstd.EncoderLevel {
	switch level {
	case 1:
		return zstd.SpeedFastest
	case 3:
		return zstd.SpeedBetterCompression
	case 4:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

// -----------------------------------------------------------------------------

func NewCompressor(level int) (*Compressor, error) {
	encLevel := EncoderLevel(level)

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(encLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	return &Compressor{level: encLevel, encoder: encoder, decoder: decoder}, nil
}

// -----------------------------------------------------------------------------

// CompressFloats XORs each value with its predecessor and compresses the
// result. Slowly varying samples produce long zero runs.
func (c *Compressor) CompressFloats(values []float64) ([]byte, error) {
	if len(values) == 0 {
		return nil, nil
	}

	buf := new(bytes.Buffer)
	buf.Grow(8 * len(values))

	var prev uint64
	for _, v := range values {
		bits := math.Float64bits(v)
		if err := binary.Write(buf, binary.LittleEndian, bits^prev); err != nil {
			return nil, err
		}
		prev = bits
	}

	return c.encoder.EncodeAll(buf.Bytes(), make([]byte, 0, buf.Len()/2)), nil
}

// -----------------------------------------------------------------------------

// DecompressFloats reverses CompressFloats. count must match the number of
// values that were compressed.
func (c *Compressor) DecompressFloats(data []byte, count int) ([]float64, error) {
	if count == 0 {
		return nil, nil
	}

	raw, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompression failed: %w", err)
	}
	if len(raw) != 8*count {
		return nil, fmt.Errorf("decompressed %d bytes, expected %d", len(raw), 8*count)
	}

	values := make([]float64, count)
	var prev uint64
	for i := range values {
		bits := binary.LittleEndian.Uint64(raw[8*i:]) ^ prev
		values[i] = math.Float64frombits(bits)
		prev = bits
	}
	return values, nil
}

// -----------------------------------------------------------------------------

// NewStreamWriter wraps w in a zstd stream at the compressor's level.
func (c *Compressor) NewStreamWriter(w io.Writer) (*zstd.Encoder, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(c.level))
}

// -----------------------------------------------------------------------------

func (c *Compressor) Close() {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
}
