// Package ioutils provides helpers to serialize integer sections of a
// constraint system shape.
package ioutils

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/ronanh/intcomp"
)

// CompressAndWriteUints32 compresses a slice of uint32 and writes it to w,
// prefixed by the compressed word count.
// It returns the scratch buffer (possibly extended) for future use.
func CompressAndWriteUints32(w io.Writer, input []uint32, scratch []uint32) ([]uint32, error) {
	scratch = scratch[:0]
	scratch = intcomp.CompressUint32(input, scratch)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(scratch))); err != nil {
		return scratch, err
	}
	return scratch, binary.Write(w, binary.LittleEndian, scratch)
}

// ReadAndDecompressUints32 reads a compressed slice of uint32 from in and
// decompresses it. It returns the scratch buffer for future use, the number
// of bytes consumed and the decompressed slice.
func ReadAndDecompressUints32(in []byte, scratch []uint32) ([]uint32, int, []uint32, error) {
	if len(in) < 8 {
		return scratch, 0, nil, errors.New("invalid uint32 section: missing length prefix")
	}
	length := binary.LittleEndian.Uint64(in[:8])
	if uint64(len(in)-8) < 4*length {
		return scratch, 0, nil, errors.New("invalid uint32 section: truncated payload")
	}
	scratch = scratch[:0]
	for i := uint64(0); i < length; i++ {
		scratch = append(scratch, binary.LittleEndian.Uint32(in[8+4*i:]))
	}
	return scratch, 8 + 4*int(length), intcomp.UncompressUint32(scratch, nil), nil
}
