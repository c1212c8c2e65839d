package roles

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/suffix-labs/p2pkh-signer/pkg/tx"
)

// Combiner merges copies of one transaction that were signed independently.
//
// The Combiner role enables parallel signing workflows:
//   - The unsigned skeleton is copied once per signer (tx.Transaction.Copy)
//   - Each party signs its own inputs on its own copy
//   - The Combiner writes every scriptSig back into a single transaction
//
// This is the only place scripts from different copies meet, so the
// write-back is serialized even if the signing was not.
type Combiner struct {
	txs []*tx.Transaction
}

// NewCombiner creates a new Combiner.
//
// Parameters:
//   - txs: Copies of the same transaction (same outpoints, outputs, version, locktime)
func NewCombiner(txs []*tx.Transaction) *Combiner {
	return &Combiner{txs: txs}
}

// Combine merges all copies into a new transaction.
//
// None of the inputs is modified. For each input the merged scriptSig is
// the non-empty one; two different non-empty scriptSigs for the same input
// are a conflict.
//
// Returns a *tx.CombineError if:
//   - No transactions were given
//   - The copies describe different transactions
//   - Conflicting scriptSigs are found
func (c *Combiner) Combine() (*tx.Transaction, error) {
	if len(c.txs) == 0 {
		return nil, &tx.CombineError{Code: tx.ErrInvalidInput, Message: "no transactions to combine"}
	}

	// Use a copy of the first transaction as base
	result := c.txs[0].Copy()

	// Merge each subsequent copy
	for i := 1; i < len(c.txs); i++ {
		if err := c.mergeInto(result, c.txs[i]); err != nil {
			return nil, &tx.CombineError{
				Code:    codeOf(err),
				Message: fmt.Sprintf("failed to merge transaction %d: %v", i, err),
				Cause:   err,
			}
		}
	}

	return result, nil
}

// mergeInto merges the scriptSigs of src into dst.
func (c *Combiner) mergeInto(dst, src *tx.Transaction) error {
	if err := c.validateCompatible(dst, src); err != nil {
		return err
	}

	for i := range dst.Inputs {
		dstScript := dst.Inputs[i].ScriptSig
		srcScript := src.Inputs[i].ScriptSig

		switch {
		case len(srcScript) == 0:
			// Nothing to merge
		case len(dstScript) == 0:
			dst.Inputs[i].ScriptSig = append([]byte{}, srcScript...)
		case !bytes.Equal(dstScript, srcScript):
			return &tx.CombineError{
				Code:    tx.ErrConflictingData,
				Message: fmt.Sprintf("conflicting scriptSig for input %d", i),
			}
		}
	}

	return nil
}

// validateCompatible checks if two transactions are copies of one skeleton.
//
// Transactions are compatible if they have:
//   - Same version and locktime
//   - Same number of inputs/outputs
//   - Same input outpoints (txid + index) and sequences
//   - Same output values and scripts
func (c *Combiner) validateCompatible(a, b *tx.Transaction) error {
	if a.Version != b.Version {
		return fmt.Errorf("incompatible versions: %d != %d", a.Version, b.Version)
	}
	if a.LockTime != b.LockTime {
		return fmt.Errorf("incompatible locktimes: %d != %d", a.LockTime, b.LockTime)
	}

	if len(a.Inputs) != len(b.Inputs) {
		return fmt.Errorf("different number of inputs: %d != %d", len(a.Inputs), len(b.Inputs))
	}
	for i := range a.Inputs {
		ai, bi := a.Inputs[i], b.Inputs[i]
		if ai.PrevTxID != bi.PrevTxID || ai.PrevIndex != bi.PrevIndex {
			return fmt.Errorf("input %d spends a different outpoint", i)
		}
		if ai.Sequence != bi.Sequence {
			return fmt.Errorf("input %d has different sequence: %d != %d", i, ai.Sequence, bi.Sequence)
		}
	}

	if len(a.Outputs) != len(b.Outputs) {
		return fmt.Errorf("different number of outputs: %d != %d", len(a.Outputs), len(b.Outputs))
	}
	for i := range a.Outputs {
		ao, bo := a.Outputs[i], b.Outputs[i]
		if ao.Value != bo.Value || !bytes.Equal(ao.ScriptPubKey, bo.ScriptPubKey) {
			return fmt.Errorf("output %d differs", i)
		}
	}

	return nil
}

func codeOf(err error) string {
	var ce *tx.CombineError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return tx.ErrInvalidInput
}
