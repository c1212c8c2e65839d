package tx

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Minimum encoded sizes, used to bound counts read from untrusted bytes.
const (
	minTxInSize  = 32 + 4 + 1 + 4 // prevout + empty script + sequence
	minTxOutSize = 8 + 1          // value + empty script
)

// Serialize encodes the transaction in the legacy wire format.
//
// Format:
//   - version (4 bytes, little-endian)
//   - num_inputs (compact size)
//   - for each input:
//   - prev_txid (32 bytes, as stored)
//   - prev_index (4 bytes, little-endian)
//   - scriptSig (compact size length + bytes)
//   - sequence (4 bytes, little-endian)
//   - num_outputs (compact size)
//   - for each output:
//   - value (8 bytes, little-endian)
//   - scriptPubKey (compact size length + bytes)
//   - locktime (4 bytes, little-endian)
//
// The same encoding, with scripts substituted, is the sighash preimage.
func (t *Transaction) Serialize() []byte {
	var buf bytes.Buffer
	buf.Grow(t.SerializeSize())

	writeUint32(&buf, t.Version)

	WriteCompactSize(&buf, uint64(len(t.Inputs)))
	for _, in := range t.Inputs {
		buf.Write(in.PrevTxID[:])
		writeUint32(&buf, in.PrevIndex)
		WriteCompactSize(&buf, uint64(len(in.ScriptSig)))
		buf.Write(in.ScriptSig)
		writeUint32(&buf, in.Sequence)
	}

	WriteCompactSize(&buf, uint64(len(t.Outputs)))
	for _, out := range t.Outputs {
		var v [8]byte
		binary.LittleEndian.PutUint64(v[:], out.Value)
		buf.Write(v[:])
		WriteCompactSize(&buf, uint64(len(out.ScriptPubKey)))
		buf.Write(out.ScriptPubKey)
	}

	writeUint32(&buf, t.LockTime)

	return buf.Bytes()
}

// SerializeSize returns the length of Serialize's output without encoding.
func (t *Transaction) SerializeSize() int {
	n := 4 + CompactSizeLen(uint64(len(t.Inputs))) + CompactSizeLen(uint64(len(t.Outputs))) + 4
	for _, in := range t.Inputs {
		n += 32 + 4 + CompactSizeLen(uint64(len(in.ScriptSig))) + len(in.ScriptSig) + 4
	}
	for _, out := range t.Outputs {
		n += 8 + CompactSizeLen(uint64(len(out.ScriptPubKey))) + len(out.ScriptPubKey)
	}
	return n
}

// Hex returns the lowercase hex encoding of the serialized transaction.
func (t *Transaction) Hex() string {
	return hex.EncodeToString(t.Serialize())
}

// TxID returns SHA256(SHA256(Serialize())) in internal byte order.
func (t *Transaction) TxID() [32]byte {
	first := sha256.Sum256(t.Serialize())
	return sha256.Sum256(first[:])
}

// TxIDHex returns the transaction ID the way block explorers display it
// (byte-reversed).
func (t *Transaction) TxIDHex() string {
	id := t.TxID()
	return hex.EncodeToString(ReverseBytes(id[:]))
}

// ReverseBytes returns a reversed copy of b. It converts between internal
// and display byte order for 32-byte hashes.
func ReverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}

// ParseHex decodes a hex string and parses it as a transaction.
func ParseHex(s string) (*Transaction, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, &ParseError{Code: ErrMalformed, Message: "invalid hex", Offset: -1, Cause: err}
	}
	return Parse(data)
}

// Parse decodes raw legacy transaction bytes.
//
// The whole buffer must be consumed: trailing bytes are an error. Parse is
// the inverse of Serialize for every transaction it accepts.
func Parse(data []byte) (*Transaction, error) {
	r := bytes.NewReader(data)
	t := &Transaction{}

	fail := func(msg string, err error) (*Transaction, error) {
		var pe *ParseError
		if errors.As(err, &pe) && pe.Offset == 0 {
			pe.Offset = offset(r, data)
			return nil, pe
		}
		return nil, &ParseError{Code: ErrMalformed, Message: msg, Offset: offset(r, data), Cause: err}
	}

	var err error
	if t.Version, err = readUint32(r); err != nil {
		return fail("reading version", err)
	}

	numInputs, err := ReadCompactSize(r)
	if err != nil {
		return fail("reading input count", err)
	}
	if numInputs > uint64(r.Len()/minTxInSize) {
		return fail(fmt.Sprintf("input count %d exceeds remaining data", numInputs), nil)
	}

	t.Inputs = make([]TxIn, 0, numInputs)
	for i := uint64(0); i < numInputs; i++ {
		var in TxIn
		if _, err := io.ReadFull(r, in.PrevTxID[:]); err != nil {
			return fail(fmt.Sprintf("reading input %d prev txid", i), err)
		}
		if in.PrevIndex, err = readUint32(r); err != nil {
			return fail(fmt.Sprintf("reading input %d prev index", i), err)
		}
		if in.ScriptSig, err = readScript(r); err != nil {
			return fail(fmt.Sprintf("reading input %d scriptSig", i), err)
		}
		if in.Sequence, err = readUint32(r); err != nil {
			return fail(fmt.Sprintf("reading input %d sequence", i), err)
		}
		t.Inputs = append(t.Inputs, in)
	}

	numOutputs, err := ReadCompactSize(r)
	if err != nil {
		return fail("reading output count", err)
	}
	if numOutputs > uint64(r.Len()/minTxOutSize) {
		return fail(fmt.Sprintf("output count %d exceeds remaining data", numOutputs), nil)
	}

	t.Outputs = make([]TxOut, 0, numOutputs)
	for i := uint64(0); i < numOutputs; i++ {
		var out TxOut
		var v [8]byte
		if _, err := io.ReadFull(r, v[:]); err != nil {
			return fail(fmt.Sprintf("reading output %d value", i), err)
		}
		out.Value = binary.LittleEndian.Uint64(v[:])
		if out.ScriptPubKey, err = readScript(r); err != nil {
			return fail(fmt.Sprintf("reading output %d scriptPubKey", i), err)
		}
		t.Outputs = append(t.Outputs, out)
	}

	if t.LockTime, err = readUint32(r); err != nil {
		return fail("reading locktime", err)
	}

	if r.Len() != 0 {
		return fail(fmt.Sprintf("%d trailing bytes", r.Len()), nil)
	}

	return t, nil
}

func readScript(r *bytes.Reader) ([]byte, error) {
	n, err := ReadCompactSize(r)
	if err != nil {
		return nil, err
	}
	if n > MaxScriptSize {
		return nil, fmt.Errorf("script length %d exceeds maximum %d", n, MaxScriptSize)
	}
	if n > uint64(r.Len()) {
		return nil, io.ErrUnexpectedEOF
	}
	script := make([]byte, n)
	if _, err := io.ReadFull(r, script); err != nil {
		return nil, err
	}
	return script, nil
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func offset(r *bytes.Reader, data []byte) int64 {
	return int64(len(data)) - int64(r.Len())
}
