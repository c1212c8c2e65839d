package script

import (
	"fmt"

	"github.com/btcsuite/btcutil/base58"
)

// P2PKH address version bytes.
const (
	AddressVersionMainnet byte = 0x00
	AddressVersionTestnet byte = 0x6f
)

// Address encodes a public key hash as a Base58Check P2PKH address.
func Address(pubkeyHash [20]byte, version byte) string {
	return base58.CheckEncode(pubkeyHash[:], version)
}

// DecodeAddress decodes a Base58Check P2PKH address into its hash and
// version byte. Only the mainnet and testnet P2PKH versions are accepted.
func DecodeAddress(addr string) ([20]byte, byte, error) {
	var hash [20]byte

	payload, version, err := base58.CheckDecode(addr)
	if err != nil {
		return hash, 0, fmt.Errorf("decoding address %q: %w", addr, err)
	}
	if version != AddressVersionMainnet && version != AddressVersionTestnet {
		return hash, 0, fmt.Errorf("address %q is not P2PKH (version 0x%02x)", addr, version)
	}
	if len(payload) != 20 {
		return hash, 0, fmt.Errorf("address %q has %d-byte payload, expected 20", addr, len(payload))
	}

	copy(hash[:], payload)
	return hash, version, nil
}

// LockingScriptForAddress returns the P2PKH scriptPubKey paying to addr.
func LockingScriptForAddress(addr string) ([]byte, error) {
	hash, _, err := DecodeAddress(addr)
	if err != nil {
		return nil, err
	}
	return P2PKHLockingScriptFromHash(hash), nil
}
