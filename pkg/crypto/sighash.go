package crypto

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/suffix-labs/p2pkh-signer/pkg/tx"
)

// Signature hash types.
//
// Only SIGHASH_ALL is implemented: the signature commits to every input
// and every output.
const (
	SighashAll uint32 = 0x01

	// SighashAllByte is appended to the DER signature in the scriptSig.
	SighashAllByte byte = byte(SighashAll)
)

// GetSignatureHash computes the legacy signature hash for one input.
//
// Algorithm (legacy Bitcoin SignatureHash with SIGHASH_ALL):
//  1. Deep-copy the transaction
//  2. Empty every input's scriptSig
//  3. Put prevScriptPubKey (the locking script being spent) into the
//     target input's scriptSig
//  4. Serialize the copy
//  5. Append the sighash type as 4 bytes little-endian
//  6. Double-SHA256 the result
//
// The transaction passed in is never modified, so every input's digest is
// computed against the same unsigned skeleton regardless of signing order.
//
// An out-of-range inputIndex is a caller bug and returns a *tx.SighashError.
func GetSignatureHash(
	t *tx.Transaction,
	inputIndex uint32,
	prevScriptPubKey []byte,
) ([32]byte, error) {
	preimage, err := SighashPreimage(t, inputIndex, prevScriptPubKey)
	if err != nil {
		return [32]byte{}, err
	}
	return Hash256(preimage), nil
}

// SighashPreimage returns the bytes hashed by GetSignatureHash.
func SighashPreimage(
	t *tx.Transaction,
	inputIndex uint32,
	prevScriptPubKey []byte,
) ([]byte, error) {
	if int(inputIndex) >= len(t.Inputs) {
		return nil, &tx.SighashError{
			InputIndex: inputIndex,
			Message:    fmt.Sprintf("input index out of bounds (have %d inputs)", len(t.Inputs)),
		}
	}

	stripped := t.Copy()
	for i := range stripped.Inputs {
		stripped.Inputs[i].ScriptSig = []byte{}
	}
	stripped.Inputs[inputIndex].ScriptSig = append([]byte{}, prevScriptPubKey...)

	var buf bytes.Buffer
	buf.Write(stripped.Serialize())

	var hashType [4]byte
	binary.LittleEndian.PutUint32(hashType[:], SighashAll)
	buf.Write(hashType[:])

	return buf.Bytes(), nil
}
