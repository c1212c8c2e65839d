// Package api provides the high-level public API for building and signing
// legacy P2PKH transactions.
//
// This is the main entry point for applications using the library:
//
//  1. ProposeTransaction - Creates the unsigned skeleton from inputs and outputs
//  2. GetSighash - Computes the signature hash for an input
//  3. SignInput / SignAll - Writes P2PKH scriptSigs
//  4. Combine - Merges copies signed in parallel
//  5. FinalizeAndExtract - Produces the broadcast-ready hex
//  6. DecodeTransaction - Parses raw transaction hex
package api

import (
	"fmt"
	"math/bits"

	"github.com/suffix-labs/p2pkh-signer/pkg/crypto"
	"github.com/suffix-labs/p2pkh-signer/pkg/roles"
	"github.com/suffix-labs/p2pkh-signer/pkg/tx"
)

// Input represents a P2PKH UTXO to spend.
type Input struct {
	TxID         [32]byte // Transaction ID, internal byte order
	OutputIndex  uint32   // Output index
	Value        uint64   // Value in satoshis
	ScriptPubKey []byte   // Locking script of the UTXO
	Sequence     *uint32  // Sequence number (nil = 0xFFFFFFFF)
}

// PrevOut returns the output this input spends.
func (in Input) PrevOut() tx.TxOut {
	return tx.NewTxOut(in.Value, in.ScriptPubKey)
}

// Output represents a new output.
type Output struct {
	Value        uint64 // Value in satoshis
	ScriptPubKey []byte // Locking script
}

// TransactionProposal contains all inputs and outputs for a transaction.
type TransactionProposal struct {
	Inputs  []Input
	Outputs []Output

	Version  uint32  // Transaction version (0 = 1)
	LockTime *uint32 // Optional nLockTime
}

// PrevOuts returns the outputs spent by the proposal, in input order.
func (p *TransactionProposal) PrevOuts() []tx.TxOut {
	prevOuts := make([]tx.TxOut, len(p.Inputs))
	for i, in := range p.Inputs {
		prevOuts[i] = in.PrevOut()
	}
	return prevOuts
}

// Fee returns the sum of input values minus the sum of output values.
// It returns an error if either sum overflows or outputs exceed inputs.
func (p *TransactionProposal) Fee() (uint64, error) {
	var in, out, carry uint64
	for _, i := range p.Inputs {
		if in, carry = bits.Add64(in, i.Value, 0); carry != 0 {
			return 0, &tx.ProposalError{Code: tx.ErrInvalidInput, Message: "input values overflow uint64"}
		}
	}
	for _, o := range p.Outputs {
		if out, carry = bits.Add64(out, o.Value, 0); carry != 0 {
			return 0, &tx.ProposalError{Code: tx.ErrInvalidInput, Message: "output values overflow uint64"}
		}
	}
	if out > in {
		return 0, &tx.ProposalError{
			Code:    tx.ErrInvalidInput,
			Message: fmt.Sprintf("outputs (%d) exceed inputs (%d)", out, in),
		}
	}
	return in - out, nil
}

// ProposeTransaction creates an unsigned transaction from a proposal.
//
// This function:
//  1. Creates the skeleton using the Creator role
//  2. Adds all inputs and outputs using the Constructor role
//
// The resulting transaction is ready for signing.
func ProposeTransaction(proposal *TransactionProposal) (*tx.Transaction, error) {
	if len(proposal.Inputs) == 0 {
		return nil, &tx.ProposalError{Code: tx.ErrInvalidInput, Message: "proposal has no inputs"}
	}
	if len(proposal.Outputs) == 0 {
		return nil, &tx.ProposalError{Code: tx.ErrInvalidInput, Message: "proposal has no outputs"}
	}
	if _, err := proposal.Fee(); err != nil {
		return nil, err
	}

	creator := roles.NewCreator(proposal.Version)
	if proposal.LockTime != nil {
		creator.WithLockTime(*proposal.LockTime)
	}

	t := creator.Create()
	constructor := roles.NewConstructor(t)

	for i, input := range proposal.Inputs {
		if err := constructor.AddInput(input.TxID, input.OutputIndex, input.Sequence); err != nil {
			return nil, fmt.Errorf("failed to add input %d: %w", i, err)
		}
	}

	for i, output := range proposal.Outputs {
		if err := constructor.AddOutput(output.Value, output.ScriptPubKey); err != nil {
			return nil, fmt.Errorf("failed to add output %d: %w", i, err)
		}
	}

	return constructor.Finish(), nil
}

// GetSighash computes the SIGHASH_ALL signature hash for an input.
//
// This is useful for external signing (e.g., hardware wallets). The
// transaction is not modified.
func GetSighash(t *tx.Transaction, inputIndex uint32, prevOut tx.TxOut) ([32]byte, error) {
	return crypto.GetSignatureHash(t, inputIndex, prevOut.ScriptPubKey)
}

// SignInput signs one input in place.
func SignInput(t *tx.Transaction, inputIndex uint32, privateKey *crypto.PrivateKey, prevOut tx.TxOut) error {
	return roles.NewSigner(t).SignInput(inputIndex, privateKey, prevOut)
}

// SignAll signs every input with the same key, one at a time.
//
// prevOuts[i] is the output spent by input i.
func SignAll(t *tx.Transaction, privateKey *crypto.PrivateKey, prevOuts []tx.TxOut) error {
	if len(prevOuts) != len(t.Inputs) {
		return &tx.ProposalError{
			Code:    tx.ErrInvalidInput,
			Message: fmt.Sprintf("have %d previous outputs for %d inputs", len(prevOuts), len(t.Inputs)),
		}
	}

	signer := roles.NewSigner(t)
	for i, prevOut := range prevOuts {
		if err := signer.SignInput(uint32(i), privateKey, prevOut); err != nil {
			return err
		}
	}
	return nil
}

// Combine merges copies of one transaction signed independently.
func Combine(txs []*tx.Transaction) (*tx.Transaction, error) {
	return roles.NewCombiner(txs).Combine()
}

// FinalizeAndExtract checks that every input is signed and returns the
// lowercase hex of the serialized transaction.
func FinalizeAndExtract(t *tx.Transaction) (string, error) {
	return roles.NewTxExtractor(t).ExtractHex()
}

// DecodeTransaction parses a raw transaction from hex.
func DecodeTransaction(rawHex string) (*tx.Transaction, error) {
	return tx.ParseHex(rawHex)
}
