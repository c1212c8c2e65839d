package roles

import (
	"github.com/suffix-labs/p2pkh-signer/pkg/script"
	"github.com/suffix-labs/p2pkh-signer/pkg/tx"
)

// Constructor adds inputs and outputs to a transaction skeleton.
//
// Inputs are added unsigned (empty scriptSig). Output order, like input
// order, is preserved and committed to by every signature.
type Constructor struct {
	tx *tx.Transaction
}

// NewConstructor creates a new Constructor from an existing transaction.
//
// The transaction should have been created by the Creator role.
func NewConstructor(t *tx.Transaction) *Constructor {
	return &Constructor{tx: t}
}

// AddInput adds an unsigned input spending prevTxID:prevIndex.
//
// Parameters:
//   - prevTxID: Transaction ID of the UTXO, internal byte order
//   - prevIndex: Output index in that transaction
//   - sequence: Sequence number (nil uses default 0xFFFFFFFF)
func (c *Constructor) AddInput(prevTxID [32]byte, prevIndex uint32, sequence *uint32) error {
	if c.tx.IsSigned() {
		return &tx.ProposalError{
			Code:    tx.ErrInvalidInput,
			Message: "cannot add inputs to a signed transaction",
		}
	}

	in := tx.NewTxIn(prevTxID, prevIndex)
	if sequence != nil {
		in.Sequence = *sequence
	}

	c.tx.Inputs = append(c.tx.Inputs, in)
	return nil
}

// AddOutput adds an output paying value to scriptPubKey.
func (c *Constructor) AddOutput(value uint64, scriptPubKey []byte) error {
	if len(scriptPubKey) == 0 {
		return &tx.ProposalError{
			Code:    tx.ErrInvalidInput,
			Message: "output scriptPubKey is empty",
		}
	}
	if len(scriptPubKey) > tx.MaxScriptSize {
		return &tx.ProposalError{
			Code:    tx.ErrInvalidInput,
			Message: "output scriptPubKey exceeds maximum script size",
		}
	}
	if c.tx.IsSigned() {
		return &tx.ProposalError{
			Code:    tx.ErrInvalidInput,
			Message: "cannot add outputs to a signed transaction",
		}
	}

	c.tx.Outputs = append(c.tx.Outputs, tx.NewTxOut(value, append([]byte{}, scriptPubKey...)))
	return nil
}

// AddP2PKHOutput adds an output paying value to a compressed public key.
func (c *Constructor) AddP2PKHOutput(value uint64, pubkey [33]byte) error {
	return c.AddOutput(value, script.P2PKHLockingScript(pubkey))
}

// Finish returns the constructed transaction.
//
// The transaction is ready to be passed to the Signer role.
func (c *Constructor) Finish() *tx.Transaction {
	return c.tx
}
