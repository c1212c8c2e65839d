// Package crypto implements secp256k1 ECDSA signing for legacy P2PKH inputs.
//
// This package provides key management, the hash primitives used by
// Bitcoin scripts, and the legacy signature hash algorithm.
//
// Key formats:
//   - Private keys: WIF (Wallet Import Format) or raw 32 bytes
//   - Public keys: Compressed 33-byte format (0x02/0x03 prefix + x-coordinate)
//   - Signatures: DER-encoded, low-S, RFC 6979 deterministic nonces
package crypto

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// WIF version bytes.
const (
	WIFVersionMainnet byte = 0x80
	WIFVersionTestnet byte = 0xef

	wifCompressedFlag byte = 0x01
)

// PrivateKey wraps secp256k1 private key
type PrivateKey struct {
	key        *secp256k1.PrivateKey
	compressed bool // WIF compression flag, kept for EncodeWIF round trips
	testnet    bool
}

// PublicKey wraps secp256k1 public key
type PublicKey struct {
	key *secp256k1.PublicKey
}

// ParsePrivateKeyWIF parses a WIF-encoded private key.
//
// Malformed text, a bad checksum, an unknown version byte or an out-of-range
// scalar all produce a *KeyError; the caller decides whether to abort.
func ParsePrivateKeyWIF(wif string) (*PrivateKey, error) {
	decoded, err := decodeWIF(wif)
	if err != nil {
		return nil, err
	}

	key, err := PrivateKeyFromBytes(decoded.key)
	if err != nil {
		return nil, err
	}
	key.compressed = decoded.compressed
	key.testnet = decoded.version == WIFVersionTestnet
	return key, nil
}

// PrivateKeyFromBytes creates a private key from raw bytes
func PrivateKeyFromBytes(keyBytes []byte) (*PrivateKey, error) {
	if len(keyBytes) != 32 {
		return nil, &KeyError{
			Code:    ErrInvalidKey,
			Message: fmt.Sprintf("private key must be 32 bytes, got %d", len(keyBytes)),
		}
	}

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(keyBytes); overflow || scalar.IsZero() {
		return nil, &KeyError{
			Code:    ErrInvalidKey,
			Message: "private key is not in the range [1, n-1]",
		}
	}

	key := secp256k1.NewPrivateKey(&scalar)
	return &PrivateKey{key: key, compressed: true}, nil
}

// Sign creates a DER-encoded ECDSA signature over a 32-byte digest.
//
// Nonces follow RFC 6979, so signing the same digest twice yields the same
// bytes. The result always has a low S value; anything else is rejected.
func (pk *PrivateKey) Sign(hash [32]byte) ([]byte, error) {
	sig := ecdsa.Sign(pk.key, hash[:])

	s := sig.S()
	if s.IsOverHalfOrder() {
		return nil, fmt.Errorf("signer produced a high-S signature")
	}

	// Serialize to DER format
	return sig.Serialize(), nil
}

// PublicKey derives the public key
func (pk *PrivateKey) PublicKey() *PublicKey {
	pubKey := pk.key.PubKey()
	return &PublicKey{key: pubKey}
}

// Bytes returns the raw 32-byte private key
func (pk *PrivateKey) Bytes() []byte {
	return pk.key.Serialize()
}

// Compressed reports whether the key was imported with the WIF
// compression flag. Signing always uses the compressed public key.
func (pk *PrivateKey) Compressed() bool {
	return pk.compressed
}

// Testnet reports whether the key was imported from a testnet WIF.
func (pk *PrivateKey) Testnet() bool {
	return pk.testnet
}

// SerializeCompressed returns the 33-byte compressed public key
func (pub *PublicKey) SerializeCompressed() [33]byte {
	var result [33]byte
	copy(result[:], pub.key.SerializeCompressed())
	return result
}

// Bytes returns the compressed public key bytes
func (pub *PublicKey) Bytes() []byte {
	return pub.key.SerializeCompressed()
}

// Hash160 returns RIPEMD160(SHA256(compressed pubkey)).
func (pub *PublicKey) Hash160() [20]byte {
	return Hash160(pub.Bytes())
}

// ParsePublicKey parses a compressed public key
func ParsePublicKey(pubKeyBytes []byte) (*PublicKey, error) {
	if len(pubKeyBytes) != 33 {
		return nil, &KeyError{
			Code:    ErrInvalidKey,
			Message: fmt.Sprintf("compressed public key must be 33 bytes, got %d", len(pubKeyBytes)),
		}
	}

	pubKey, err := secp256k1.ParsePubKey(pubKeyBytes)
	if err != nil {
		return nil, &KeyError{Code: ErrInvalidKey, Message: "failed to parse public key", Cause: err}
	}

	return &PublicKey{key: pubKey}, nil
}

// VerifySignature verifies a DER-encoded ECDSA signature
func VerifySignature(pubkey *PublicKey, hash [32]byte, signature []byte) bool {
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}

	return sig.Verify(hash[:], pubkey.key)
}

type wifPayload struct {
	version    byte
	key        []byte
	compressed bool
}

// decodeWIF decodes a WIF-encoded private key
// WIF format: version_byte || private_key (32 bytes) || [compression_flag] || checksum (4 bytes)
func decodeWIF(wif string) (*wifPayload, error) {
	// base58.Decode returns an empty slice for characters outside the alphabet
	decoded := base58.Decode(wif)
	if len(decoded) == 0 {
		return nil, &KeyError{Code: ErrInvalidEncoding, Message: "WIF is not valid base58"}
	}
	if len(decoded) != 37 && len(decoded) != 38 {
		return nil, &KeyError{
			Code:    ErrInvalidEncoding,
			Message: fmt.Sprintf("invalid WIF length %d", len(decoded)),
		}
	}

	// Extract checksum (last 4 bytes)
	checksumOffset := len(decoded) - 4
	providedChecksum := decoded[checksumOffset:]
	payload := decoded[:checksumOffset]

	computed := Hash256(payload)
	if !bytes.Equal(providedChecksum, computed[:4]) {
		return nil, &KeyError{Code: ErrChecksumMismatch, Message: "WIF checksum mismatch"}
	}

	// Check version byte (0x80 for mainnet, 0xef for testnet)
	version := payload[0]
	if version != WIFVersionMainnet && version != WIFVersionTestnet {
		return nil, &KeyError{
			Code:    ErrInvalidEncoding,
			Message: fmt.Sprintf("invalid WIF version byte: 0x%02x", version),
		}
	}

	compressed := false
	if len(payload) == 34 {
		if payload[33] != wifCompressedFlag {
			return nil, &KeyError{
				Code:    ErrInvalidEncoding,
				Message: fmt.Sprintf("invalid WIF compression flag: 0x%02x", payload[33]),
			}
		}
		compressed = true
	}

	// Extract private key (32 bytes after version byte)
	return &wifPayload{version: version, key: payload[1:33], compressed: compressed}, nil
}

// EncodeWIF encodes a private key to WIF format
func EncodeWIF(privateKey []byte, compressed bool, testnet bool) (string, error) {
	if len(privateKey) != 32 {
		return "", &KeyError{Code: ErrInvalidKey, Message: "private key must be 32 bytes"}
	}

	version := WIFVersionMainnet
	if testnet {
		version = WIFVersionTestnet
	}

	// Build payload: version || private_key || [compression_flag]
	payload := make([]byte, 0, 38)
	payload = append(payload, version)
	payload = append(payload, privateKey...)
	if compressed {
		payload = append(payload, wifCompressedFlag)
	}

	checksum := Hash256(payload)
	payload = append(payload, checksum[:4]...)

	// Encode to base58
	return base58.Encode(payload), nil
}
