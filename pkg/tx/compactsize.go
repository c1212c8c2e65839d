package tx

import (
	"bytes"
	"encoding/binary"
	"io"
)

// ============================================================================
// Bitcoin-style CompactSize encoding
//
// CompactSize is the variable-length encoding for unsigned integers used
// for counts and script lengths. The first byte determines the total length.
//
// See: https://en.bitcoin.it/wiki/Protocol_documentation#Variable_length_integer
// ============================================================================

// WriteCompactSize writes a CompactSize-encoded integer.
//
// Encoding:
//   - < 0xFD: 1 byte (the value itself)
//   - >= 0xFD and <= 0xFFFF: 0xFD + 2 bytes little-endian
//   - >= 0x10000 and <= 0xFFFFFFFF: 0xFE + 4 bytes little-endian
//   - >= 0x100000000: 0xFF + 8 bytes little-endian
func WriteCompactSize(buf *bytes.Buffer, n uint64) {
	var scratch [8]byte
	switch {
	case n < 0xFD:
		buf.WriteByte(byte(n))
	case n <= 0xFFFF:
		buf.WriteByte(0xFD)
		binary.LittleEndian.PutUint16(scratch[:2], uint16(n))
		buf.Write(scratch[:2])
	case n <= 0xFFFFFFFF:
		buf.WriteByte(0xFE)
		binary.LittleEndian.PutUint32(scratch[:4], uint32(n))
		buf.Write(scratch[:4])
	default:
		buf.WriteByte(0xFF)
		binary.LittleEndian.PutUint64(scratch[:], n)
		buf.Write(scratch[:])
	}
}

// EncodeCompactSize returns the CompactSize encoding of n.
func EncodeCompactSize(n uint64) []byte {
	var buf bytes.Buffer
	WriteCompactSize(&buf, n)
	return buf.Bytes()
}

// CompactSizeLen returns the number of bytes WriteCompactSize emits for n.
func CompactSizeLen(n uint64) int {
	switch {
	case n < 0xFD:
		return 1
	case n <= 0xFFFF:
		return 3
	case n <= 0xFFFFFFFF:
		return 5
	default:
		return 9
	}
}

// ReadCompactSize reads a CompactSize-encoded integer.
//
// Non-canonical encodings (a wider form than the value needs) are rejected,
// so every value has exactly one accepted encoding.
func ReadCompactSize(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}

	var (
		n     uint64
		floor uint64
	)
	switch prefix[0] {
	case 0xFD:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		n, floor = uint64(binary.LittleEndian.Uint16(b[:])), 0xFD
	case 0xFE:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		n, floor = uint64(binary.LittleEndian.Uint32(b[:])), 0x10000
	case 0xFF:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		n, floor = binary.LittleEndian.Uint64(b[:]), 0x100000000
	default:
		return uint64(prefix[0]), nil
	}

	if n < floor {
		return 0, &ParseError{
			Code:    ErrMalformed,
			Message: "non-canonical compact size encoding",
		}
	}
	return n, nil
}
