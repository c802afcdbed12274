package compression

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/pierrec/lz4"
)

// ErrCorrupt is returned when a compressed value cannot be decoded.
var ErrCorrupt = errors.New("compression: corrupt input")

// NoCompressor stores values as they are.
type NoCompressor struct{}

func (NoCompressor) Name() string { return "none" }

func (NoCompressor) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (NoCompressor) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

// LZ4Compressor stores an LZ4 block prefixed with the uvarint length of the
// original value. Values that do not shrink are stored raw behind a zero
// length.
type LZ4Compressor struct{}

func (LZ4Compressor) Name() string { return "lz4" }

func (LZ4Compressor) Compress(data []byte) ([]byte, error) {
	out := make([]byte, binary.MaxVarintLen64+lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, out[binary.MaxVarintLen64:], nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	if n == 0 || n >= len(data) {
		return append([]byte{0}, data...), nil
	}

	hdr := binary.PutUvarint(out, uint64(len(data)))
	copy(out[hdr:], out[binary.MaxVarintLen64:binary.MaxVarintLen64+n])
	return out[:hdr+n], nil
}

func (LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	size, hdr := binary.Uvarint(data)
	if hdr <= 0 {
		return nil, ErrCorrupt
	}
	if size == 0 {
		return append([]byte(nil), data[hdr:]...), nil
	}

	out := make([]byte, size)
	n, err := lz4.UncompressBlock(data[hdr:], out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if uint64(n) != size {
		return nil, ErrCorrupt
	}
	return out, nil
}
