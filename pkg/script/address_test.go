package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/p2pkh-signer/pkg/crypto"
)

func TestAddressKeyOne(t *testing.T) {
	pub := keyOne(t)
	addr := Address(crypto.Hash160(pub[:]), AddressVersionMainnet)
	assert.Equal(t, "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", addr)

	s, err := LockingScriptForAddress(addr)
	require.NoError(t, err)
	assert.Equal(t, P2PKHLockingScript(pub), s)
}

func TestAddressRoundTrip(t *testing.T) {
	hash := [20]byte{0x01, 0x02, 0x03}

	for _, version := range []byte{AddressVersionMainnet, AddressVersionTestnet} {
		addr := Address(hash, version)
		gotHash, gotVersion, err := DecodeAddress(addr)
		require.NoError(t, err)
		assert.Equal(t, hash, gotHash)
		assert.Equal(t, version, gotVersion)
	}
}

func TestDecodeAddressErrors(t *testing.T) {
	valid := Address([20]byte{0x01}, AddressVersionMainnet)

	repl := "z"
	if valid[len(valid)-1] == 'z' {
		repl = "y"
	}
	_, _, err := DecodeAddress(valid[:len(valid)-1] + repl)
	assert.Error(t, err, "checksum")

	_, _, err = DecodeAddress("0OIl")
	assert.Error(t, err, "not base58")

	// P2SH version byte
	_, _, err = DecodeAddress(Address([20]byte{0x01}, 0x05))
	assert.Error(t, err)
}
