// Package script builds the Bitcoin scripts used by P2PKH spends.
//
// Locking script (scriptPubKey), 25 bytes:
//
//	OP_DUP OP_HASH160 <20-byte hash160(pubkey)> OP_EQUALVERIFY OP_CHECKSIG
//
// Unlocking script (scriptSig):
//
//	<DER signature || sighash type> <compressed pubkey>
//
// See: bitcoin/script/script.h and bitcoin/script/interpreter.cpp
package script

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/suffix-labs/p2pkh-signer/pkg/crypto"
)

// Opcodes used by the P2PKH templates.
const (
	OpDup         byte = 0x76
	OpHash160     byte = 0xA9
	OpEqualVerify byte = 0x88
	OpCheckSig    byte = 0xAC

	// OpPushBytes20 pushes the 20-byte public key hash.
	OpPushBytes20 byte = 0x14

	// MaxDirectPush is the largest length a single-byte push opcode can
	// carry (OP_PUSHBYTES_1 .. OP_PUSHBYTES_75).
	MaxDirectPush = 75

	P2PKHScriptLen = 25
)

// Errors returned by UnlockingScript and ParseUnlockingScript.
var (
	ErrEmptyPush     = errors.New("script push of zero bytes")
	ErrPushTooLarge  = fmt.Errorf("script push exceeds %d bytes", MaxDirectPush)
	ErrMalformedPush = errors.New("malformed scriptSig")
)

// P2PKHLockingScript returns the P2PKH scriptPubKey for a compressed public key.
func P2PKHLockingScript(pubkey [33]byte) []byte {
	return P2PKHLockingScriptFromHash(crypto.Hash160(pubkey[:]))
}

// P2PKHLockingScriptFromHash returns the P2PKH scriptPubKey for a hash160.
func P2PKHLockingScriptFromHash(pubkeyHash [20]byte) []byte {
	script := make([]byte, 0, P2PKHScriptLen)
	script = append(script, OpDup)
	script = append(script, OpHash160)
	script = append(script, OpPushBytes20)
	script = append(script, pubkeyHash[:]...)
	script = append(script, OpEqualVerify)
	script = append(script, OpCheckSig)

	return script
}

// ExtractP2PKH returns the public key hash of a P2PKH scriptPubKey.
// The second result is false if script is not exactly the P2PKH template.
func ExtractP2PKH(script []byte) ([20]byte, bool) {
	var hash [20]byte
	if len(script) != P2PKHScriptLen ||
		script[0] != OpDup ||
		script[1] != OpHash160 ||
		script[2] != OpPushBytes20 ||
		script[23] != OpEqualVerify ||
		script[24] != OpCheckSig {
		return hash, false
	}
	copy(hash[:], script[3:23])
	return hash, true
}

// UnlockingScript constructs a P2PKH scriptSig.
//
// Format: <signature> <pubkey>
//
// Each element is pushed to the stack with a length prefix:
//   - OP_PUSHBYTES_N (where N is the length of the following data)
//   - Data bytes
//
// N must be in 1..75; a DER signature plus the sighash byte is at most 73
// bytes and a compressed key is 33, so a longer push means a caller bug.
func UnlockingScript(signature []byte, pubkey []byte) ([]byte, error) {
	if err := checkPush(signature); err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}
	if err := checkPush(pubkey); err != nil {
		return nil, fmt.Errorf("pubkey: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(2 + len(signature) + len(pubkey))

	// Push signature
	buf.WriteByte(byte(len(signature)))
	buf.Write(signature)

	// Push pubkey
	buf.WriteByte(byte(len(pubkey)))
	buf.Write(pubkey)

	return buf.Bytes(), nil
}

// ParseUnlockingScript splits a P2PKH scriptSig into its two pushes.
func ParseUnlockingScript(scriptSig []byte) (signature, pubkey []byte, err error) {
	rest := scriptSig
	signature, rest, err = readPush(rest)
	if err != nil {
		return nil, nil, err
	}
	pubkey, rest, err = readPush(rest)
	if err != nil {
		return nil, nil, err
	}
	if len(rest) != 0 {
		return nil, nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedPush, len(rest))
	}
	return signature, pubkey, nil
}

func checkPush(data []byte) error {
	switch {
	case len(data) == 0:
		return ErrEmptyPush
	case len(data) > MaxDirectPush:
		return fmt.Errorf("%w: got %d", ErrPushTooLarge, len(data))
	}
	return nil
}

func readPush(script []byte) (data, rest []byte, err error) {
	if len(script) == 0 {
		return nil, nil, fmt.Errorf("%w: missing push", ErrMalformedPush)
	}
	n := int(script[0])
	if n == 0 || n > MaxDirectPush {
		return nil, nil, fmt.Errorf("%w: opcode 0x%02x is not a direct push", ErrMalformedPush, script[0])
	}
	if len(script)-1 < n {
		return nil, nil, fmt.Errorf("%w: push of %d bytes truncated", ErrMalformedPush, n)
	}
	return script[1 : 1+n], script[1+n:], nil
}
