package roles

import (
	"fmt"

	"github.com/suffix-labs/p2pkh-signer/pkg/crypto"
	"github.com/suffix-labs/p2pkh-signer/pkg/script"
	"github.com/suffix-labs/p2pkh-signer/pkg/tx"
)

// Signer writes P2PKH unlocking scripts into transaction inputs.
//
// The Signer role:
//   - Computes the legacy SIGHASH_ALL signature hash for an input
//   - Signs it with a secp256k1 private key
//   - Builds the scriptSig <signature||0x01> <pubkey>
//   - Replaces the input's scriptSig, leaving every other input untouched
//
// Signing order does not matter: the sighash blanks every scriptSig, so
// scripts written by earlier calls never reach a later input's digest.
//
// A Signer is not safe for concurrent use. To sign inputs in parallel,
// give each goroutine its own Copy of the skeleton and merge the results
// with the Combiner.
type Signer struct {
	tx *tx.Transaction
}

// NewSigner creates a new Signer.
func NewSigner(t *tx.Transaction) *Signer {
	return &Signer{tx: t}
}

// SignInput signs a specific input that spends prevOut.
//
// Parameters:
//   - inputIndex: Index of the input to sign (0-based)
//   - privateKey: secp256k1 private key controlling prevOut
//   - prevOut: The output being spent; its scriptPubKey is committed to
//
// The signature format is: DER-encoded ECDSA signature || SIGHASH type byte
//
// Returns a *tx.SignatureError if:
//   - Input index is out of bounds
//   - prevOut is not P2PKH, or pays a different key
//   - Signing fails or the signature does not verify
func (s *Signer) SignInput(
	inputIndex uint32,
	privateKey *crypto.PrivateKey,
	prevOut tx.TxOut,
) error {
	if int(inputIndex) >= len(s.tx.Inputs) {
		return &tx.SignatureError{
			InputIndex: inputIndex,
			Code:       tx.ErrInvalidInput,
			Message: fmt.Sprintf("input index %d out of bounds (have %d inputs)",
				inputIndex, len(s.tx.Inputs)),
		}
	}

	pubkey := privateKey.PublicKey()

	// The key must control the output being spent
	wantHash, ok := script.ExtractP2PKH(prevOut.ScriptPubKey)
	if !ok {
		return &tx.SignatureError{
			InputIndex: inputIndex,
			Code:       tx.ErrInvalidInput,
			Message:    "previous output is not P2PKH",
		}
	}
	if wantHash != pubkey.Hash160() {
		return &tx.SignatureError{
			InputIndex: inputIndex,
			Code:       tx.ErrKeyMismatch,
			Message:    "private key does not match previous output's pubkey hash",
		}
	}

	sighash, err := crypto.GetSignatureHash(s.tx, inputIndex, prevOut.ScriptPubKey)
	if err != nil {
		return &tx.SignatureError{
			InputIndex: inputIndex,
			Code:       tx.ErrInvalidSighash,
			Message:    "failed to compute sighash",
			Cause:      err,
		}
	}

	derSignature, err := privateKey.Sign(sighash)
	if err != nil {
		return &tx.SignatureError{
			InputIndex: inputIndex,
			Code:       tx.ErrInvalidSignature,
			Message:    "failed to sign",
			Cause:      err,
		}
	}
	if !crypto.VerifySignature(pubkey, sighash, derSignature) {
		return &tx.SignatureError{
			InputIndex: inputIndex,
			Code:       tx.ErrInvalidSignature,
			Message:    "signature does not verify against sighash",
		}
	}

	// The trailing byte is part of the scriptSig; the digest used the
	// 4-byte form of the same type.
	signature := make([]byte, 0, len(derSignature)+1)
	signature = append(signature, derSignature...)
	signature = append(signature, crypto.SighashAllByte)

	scriptSig, err := script.UnlockingScript(signature, pubkey.Bytes())
	if err != nil {
		return &tx.SignatureError{
			InputIndex: inputIndex,
			Code:       tx.ErrInvalidSignature,
			Message:    "failed to build scriptSig",
			Cause:      err,
		}
	}

	s.tx.Inputs[inputIndex].ScriptSig = scriptSig
	return nil
}

// Finish returns the signed transaction.
//
// The transaction can now be:
//   - Passed to the Combiner if other inputs were signed on other copies
//   - Passed to the Transaction Extractor to produce broadcast bytes
func (s *Signer) Finish() *tx.Transaction {
	return s.tx
}
