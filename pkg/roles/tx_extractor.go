package roles

import (
	"fmt"

	"github.com/suffix-labs/p2pkh-signer/pkg/tx"
)

// TxExtractor extracts the final transaction from a fully signed skeleton.
//
// The Transaction Extractor role:
//   - Verifies every input carries a scriptSig
//   - Verifies the transaction has at least one input and one output
//   - Produces the raw bytes or hex ready for broadcast
//
// This is the final role. Its output is submitted as-is to a relay
// endpoint; broadcasting itself is out of scope.
type TxExtractor struct {
	tx *tx.Transaction
}

// NewTxExtractor creates a new Transaction Extractor.
func NewTxExtractor(t *tx.Transaction) *TxExtractor {
	return &TxExtractor{tx: t}
}

// Extract validates the transaction and returns it.
func (e *TxExtractor) Extract() (*tx.Transaction, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e.tx, nil
}

// ExtractBytes returns the serialized transaction.
func (e *TxExtractor) ExtractBytes() ([]byte, error) {
	t, err := e.Extract()
	if err != nil {
		return nil, err
	}
	return t.Serialize(), nil
}

// ExtractHex returns the lowercase hex of the serialized transaction.
func (e *TxExtractor) ExtractHex() (string, error) {
	t, err := e.Extract()
	if err != nil {
		return "", err
	}
	return t.Hex(), nil
}

// validate checks that the transaction is ready for extraction.
//
// Validation rules:
//   - At least one input and one output
//   - All inputs must have scriptSig set
func (e *TxExtractor) validate() error {
	if len(e.tx.Inputs) == 0 {
		return &tx.FinalizationError{Code: tx.ErrIncomplete, Message: "transaction has no inputs"}
	}
	if len(e.tx.Outputs) == 0 {
		return &tx.FinalizationError{Code: tx.ErrIncomplete, Message: "transaction has no outputs"}
	}

	for i, input := range e.tx.Inputs {
		if len(input.ScriptSig) == 0 {
			return &tx.FinalizationError{
				Code:    tx.ErrIncomplete,
				Message: fmt.Sprintf("input %d missing scriptSig (not signed)", i),
			}
		}
	}

	return nil
}
