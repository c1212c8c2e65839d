// Package tx implements the legacy (pre-segwit) Bitcoin transaction format.
//
// The types in this file are the in-memory model of a transaction that
// spends P2PKH outputs. The canonical binary encoding lives in
// serialization.go and the compact-size integer codec in compactsize.go.
//
// Wire layout:
//
//	version(4) || compact(n_in) || inputs || compact(n_out) || outputs || locktime(4)
//
// References:
//   - https://developer.bitcoin.org/reference/transactions.html
//   - https://en.bitcoin.it/wiki/Protocol_documentation#tx
package tx

// Transaction defaults and protocol constants.
const (
	DefaultVersion  uint32 = 1          // Legacy transaction version
	DefaultSequence uint32 = 0xFFFFFFFF // Final sequence, no relative locktime
	DefaultLockTime uint32 = 0          // No absolute locktime

	// MaxScriptSize bounds a single script when parsing untrusted bytes.
	MaxScriptSize = 10000
)

// Transaction is a legacy Bitcoin transaction.
//
// Input and output order is significant: it is both the serialization
// order and the order in which inputs are referenced when signing.
// A Transaction owns its inputs and outputs; use Copy before handing a
// transaction to code that may mutate it.
type Transaction struct {
	Version  uint32  // Transaction version (1 for legacy)
	Inputs   []TxIn  // Coins being spent
	Outputs  []TxOut // Coins being created
	LockTime uint32  // nLockTime (block height or UNIX timestamp)
}

// TxIn references a previous output and carries the script that unlocks it.
type TxIn struct {
	PrevTxID  [32]byte // Previous transaction ID, internal byte order (never reversed here)
	PrevIndex uint32   // Output index in the previous transaction
	ScriptSig []byte   // Unlocking script (empty until signed)
	Sequence  uint32   // Sequence number (default 0xFFFFFFFF)
}

// TxOut is a new output locked by ScriptPubKey.
type TxOut struct {
	Value        uint64 // Amount in satoshis
	ScriptPubKey []byte // Locking script
}

// NewTxIn creates an unsigned input with the default sequence.
func NewTxIn(prevTxID [32]byte, prevIndex uint32) TxIn {
	return TxIn{
		PrevTxID:  prevTxID,
		PrevIndex: prevIndex,
		ScriptSig: []byte{},
		Sequence:  DefaultSequence,
	}
}

// NewTxOut creates an output paying value to scriptPubKey.
func NewTxOut(value uint64, scriptPubKey []byte) TxOut {
	return TxOut{Value: value, ScriptPubKey: scriptPubKey}
}

// Copy returns a deep copy of the transaction. No script slice is shared
// between the copy and the original.
func (t *Transaction) Copy() *Transaction {
	c := &Transaction{
		Version:  t.Version,
		Inputs:   make([]TxIn, len(t.Inputs)),
		Outputs:  make([]TxOut, len(t.Outputs)),
		LockTime: t.LockTime,
	}
	for i, in := range t.Inputs {
		in.ScriptSig = cloneBytes(in.ScriptSig)
		c.Inputs[i] = in
	}
	for i, out := range t.Outputs {
		out.ScriptPubKey = cloneBytes(out.ScriptPubKey)
		c.Outputs[i] = out
	}
	return c
}

// IsSigned reports whether every input carries an unlocking script.
func (t *Transaction) IsSigned() bool {
	for _, in := range t.Inputs {
		if len(in.ScriptSig) == 0 {
			return false
		}
	}
	return len(t.Inputs) > 0
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
