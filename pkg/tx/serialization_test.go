package tx

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// genesisCoinbaseHex is the coinbase transaction of the Bitcoin genesis block.
const (
	genesisCoinbaseHex  = "01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff4d04ffff001d0104455468652054696d65732030332f4a616e2f32303039204368616e63656c6c6f72206f6e206272696e6b206f66207365636f6e64206261696c6f757420666f722062616e6b73ffffffff0100f2052a01000000434104678afdb0fe5548271967f1a67130b7105cd6a828e03909a67962e0ea1f61deb649f6bc3f4cef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf11d5fac00000000"
	genesisCoinbaseTxID = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
)

// sampleTx builds the one-in, one-out skeleton used across tests.
func sampleTx() *Transaction {
	lockingScript := append([]byte{0x76, 0xA9, 0x14}, bytes.Repeat([]byte{0xAB}, 20)...)
	lockingScript = append(lockingScript, 0x88, 0xAC)

	return &Transaction{
		Version:  1,
		Inputs:   []TxIn{NewTxIn([32]byte{}, 0)},
		Outputs:  []TxOut{NewTxOut(90000, lockingScript)},
		LockTime: 0,
	}
}

func TestGenesisCoinbase(t *testing.T) {
	raw, err := hex.DecodeString(genesisCoinbaseHex)
	require.NoError(t, err)

	parsed, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), parsed.Version)
	require.Len(t, parsed.Inputs, 1)
	assert.Equal(t, [32]byte{}, parsed.Inputs[0].PrevTxID)
	assert.Equal(t, uint32(0xFFFFFFFF), parsed.Inputs[0].PrevIndex)
	assert.Len(t, parsed.Inputs[0].ScriptSig, 77)
	assert.Equal(t, DefaultSequence, parsed.Inputs[0].Sequence)
	require.Len(t, parsed.Outputs, 1)
	assert.Equal(t, uint64(5_000_000_000), parsed.Outputs[0].Value)
	assert.Len(t, parsed.Outputs[0].ScriptPubKey, 67)
	assert.Equal(t, uint32(0), parsed.LockTime)

	assert.Equal(t, raw, parsed.Serialize())
	assert.Equal(t, len(raw), parsed.SerializeSize())
	assert.Equal(t, genesisCoinbaseHex, parsed.Hex())
	assert.Equal(t, genesisCoinbaseTxID, parsed.TxIDHex())

	id := parsed.TxID()
	assert.Equal(t, genesisCoinbaseTxID, hex.EncodeToString(ReverseBytes(id[:])))
}

func TestSerializeLayout(t *testing.T) {
	tx := sampleTx()
	tx.Inputs[0].PrevTxID[0] = 0x01
	tx.Inputs[0].PrevIndex = 2
	tx.LockTime = 0x01020304

	got := tx.Serialize()

	var want []byte
	want = append(want, 0x01, 0x00, 0x00, 0x00) // version
	want = append(want, 0x01)                   // input count
	prev := make([]byte, 32)
	prev[0] = 0x01
	want = append(want, prev...)                // prev txid, as stored
	want = append(want, 0x02, 0x00, 0x00, 0x00) // prev index
	want = append(want, 0x00)                   // empty scriptSig
	want = append(want, 0xFF, 0xFF, 0xFF, 0xFF) // sequence
	want = append(want, 0x01)                   // output count
	want = append(want, 0x90, 0x5F, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00)
	want = append(want, 0x19)
	want = append(want, tx.Outputs[0].ScriptPubKey...)
	want = append(want, 0x04, 0x03, 0x02, 0x01) // locktime

	assert.Equal(t, want, got)
	assert.Equal(t, len(want), tx.SerializeSize())
}

func TestSerializeDeterministic(t *testing.T) {
	tx := sampleTx()
	first := tx.Serialize()
	second := tx.Serialize()
	assert.Equal(t, first, second)
	assert.Equal(t, tx.TxID(), tx.TxID())
	assert.Equal(t, tx.TxID(), sampleTx().TxID())
}

func TestRoundTrip(t *testing.T) {
	tx := sampleTx()
	tx.Inputs = append(tx.Inputs, TxIn{
		PrevTxID:  [32]byte{0xde, 0xad, 0xbe, 0xef},
		PrevIndex: 7,
		ScriptSig: bytes.Repeat([]byte{0x51}, 300), // forces a 3-byte compact size
		Sequence:  0xFFFFFFFE,
	})
	tx.LockTime = 650000

	parsed, err := Parse(tx.Serialize())
	require.NoError(t, err)
	assert.Equal(t, tx, parsed)
}

func TestCopyIsDeep(t *testing.T) {
	tx := sampleTx()
	tx.Inputs[0].ScriptSig = []byte{0x01, 0x02}

	c := tx.Copy()
	require.Equal(t, tx, c)

	c.Inputs[0].ScriptSig[0] = 0xFF
	c.Outputs[0].ScriptPubKey[0] = 0x00
	c.Inputs = append(c.Inputs, NewTxIn([32]byte{1}, 1))

	assert.Equal(t, byte(0x01), tx.Inputs[0].ScriptSig[0])
	assert.Equal(t, byte(0x76), tx.Outputs[0].ScriptPubKey[0])
	assert.Len(t, tx.Inputs, 1)
}

func TestIsSigned(t *testing.T) {
	tx := sampleTx()
	assert.False(t, tx.IsSigned())

	tx.Inputs[0].ScriptSig = []byte{0x00}
	assert.True(t, tx.IsSigned())

	assert.False(t, (&Transaction{}).IsSigned())
}

func TestParseErrors(t *testing.T) {
	valid := sampleTx().Serialize()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"truncated version", valid[:2]},
		{"truncated input", valid[:20]},
		{"truncated locktime", valid[:len(valid)-1]},
		{"trailing bytes", append(append([]byte{}, valid...), 0x00)},
		{"input count exceeds data", []byte{0x01, 0x00, 0x00, 0x00, 0xFD, 0xFF, 0xFF}},
		{"output count exceeds data", append(append([]byte{}, valid[:46]...), 0xFE, 0xFF, 0xFF, 0xFF, 0x00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected ParseError, got %T", err)
			assert.Equal(t, ErrMalformed, pe.Code)
		})
	}
}

func TestParseRejectsOversizedScript(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x01, 0x00, 0x00, 0x00, 0x01})
	buf.Write(make([]byte, 36))
	WriteCompactSize(&buf, MaxScriptSize+1)
	buf.Write(make([]byte, MaxScriptSize+1+4))
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x00})

	_, err := Parse(buf.Bytes())
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Error(), "exceeds maximum")
}

func TestParseHex(t *testing.T) {
	parsed, err := ParseHex(genesisCoinbaseHex)
	require.NoError(t, err)
	assert.Equal(t, genesisCoinbaseTxID, parsed.TxIDHex())

	_, err = ParseHex("zz")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, int64(-1), pe.Offset)
}
