// Package roles implements transaction construction as a sequence of roles.
//
// Roles separate building a spend into distinct responsibilities:
//   - Creator: Initializes an empty transaction with version and locktime
//   - Constructor: Adds inputs and outputs
//   - Signer: Computes sighashes and writes P2PKH scriptSigs
//   - Combiner: Merges copies of one skeleton signed independently
//   - Transaction Extractor: Checks completeness and produces final bytes
//
// Each role can be run by a different party or at a different time. They
// all operate on a *tx.Transaction owned by one caller at a time.
package roles

import (
	"github.com/suffix-labs/p2pkh-signer/pkg/tx"
)

// Creator initializes a transaction with no inputs or outputs.
//
// The Creator sets the transaction-wide fields that all parties must agree
// on. Inputs and outputs are added by the Constructor.
type Creator struct {
	version  uint32 // Transaction version (1 for legacy)
	lockTime uint32 // nLockTime
}

// NewCreator creates a new Creator for the given transaction version.
// A version of 0 selects tx.DefaultVersion.
func NewCreator(version uint32) *Creator {
	if version == 0 {
		version = tx.DefaultVersion
	}
	return &Creator{
		version:  version,
		lockTime: tx.DefaultLockTime,
	}
}

// WithLockTime sets nLockTime.
//
// It can be either a block height (< 500000000) or UNIX timestamp (>= 500000000).
// It only takes effect if some input has a non-final sequence.
func (c *Creator) WithLockTime(lockTime uint32) *Creator {
	c.lockTime = lockTime
	return c
}

// Create creates the empty transaction skeleton.
func (c *Creator) Create() *tx.Transaction {
	return &tx.Transaction{
		Version:  c.version,
		Inputs:   []tx.TxIn{},
		Outputs:  []tx.TxOut{},
		LockTime: c.lockTime,
	}
}
