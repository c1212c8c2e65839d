package crypto

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Private key 0x00..01 and its well-known encodings
const (
	keyOneWIFCompressed   = "KwDiBf89QgGbjEhKnhXJuH7LrciVrZi3qYjgd9M7rFU73sVHnoWn"
	keyOneWIFUncompressed = "5HpHagT65TZzG1PH3CSu63k8DbpvD8s5ip4nEB3kEsreAnchuDf"
	keyOnePubKey          = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
)

func keyOneBytes() []byte {
	b := make([]byte, 32)
	b[31] = 0x01
	return b
}

// testKey returns the fixed test key used by the signing tests
func testKey(t *testing.T) *PrivateKey {
	t.Helper()
	privateKeyBytes := [32]byte{
		0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88,
		0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x00,
		0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88,
		0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x01,
	}
	key, err := PrivateKeyFromBytes(privateKeyBytes[:])
	require.NoError(t, err)
	return key
}

func TestParsePrivateKeyWIF(t *testing.T) {
	tests := []struct {
		name       string
		wif        string
		compressed bool
	}{
		{"compressed", keyOneWIFCompressed, true},
		{"uncompressed", keyOneWIFUncompressed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := ParsePrivateKeyWIF(tt.wif)
			require.NoError(t, err)

			assert.Equal(t, keyOneBytes(), key.Bytes())
			assert.Equal(t, tt.compressed, key.Compressed())
			assert.False(t, key.Testnet())

			// Signing always uses the compressed public key
			assert.Equal(t, keyOnePubKey, hex.EncodeToString(key.PublicKey().Bytes()))
		})
	}
}

func TestParsePrivateKeyWIFErrors(t *testing.T) {
	// Flip the last character to break the checksum
	badChecksum := keyOneWIFCompressed[:len(keyOneWIFCompressed)-1] + "o"

	tests := []struct {
		name string
		wif  string
		code string
	}{
		{"empty", "", ErrInvalidEncoding},
		{"not base58", "0OIl", ErrInvalidEncoding},
		{"too short", "KwDiBf89QgGbjEhKnhXJuH", ErrInvalidEncoding},
		{"checksum", badChecksum, ErrChecksumMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrivateKeyWIF(tt.wif)
			require.Error(t, err)

			var ke *KeyError
			require.True(t, errors.As(err, &ke), "expected KeyError, got %T", err)
			assert.Equal(t, tt.code, ke.Code)
		})
	}
}

func TestEncodeWIFRoundTrip(t *testing.T) {
	wif, err := EncodeWIF(keyOneBytes(), true, false)
	require.NoError(t, err)
	assert.Equal(t, keyOneWIFCompressed, wif)

	wif, err = EncodeWIF(keyOneBytes(), false, false)
	require.NoError(t, err)
	assert.Equal(t, keyOneWIFUncompressed, wif)

	key := testKey(t)
	wif, err = EncodeWIF(key.Bytes(), true, true)
	require.NoError(t, err)

	parsed, err := ParsePrivateKeyWIF(wif)
	require.NoError(t, err)
	assert.Equal(t, key.Bytes(), parsed.Bytes())
	assert.True(t, parsed.Testnet())
	assert.True(t, parsed.Compressed())

	_, err = EncodeWIF([]byte{0x01}, true, false)
	assert.Error(t, err)
}

func TestPrivateKeyFromBytesRange(t *testing.T) {
	_, err := PrivateKeyFromBytes(make([]byte, 32))
	assert.Error(t, err, "zero scalar")

	order, _ := hex.DecodeString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")
	_, err = PrivateKeyFromBytes(order)
	assert.Error(t, err, "curve order")

	_, err = PrivateKeyFromBytes(make([]byte, 31))
	var ke *KeyError
	require.True(t, errors.As(err, &ke))
	assert.Equal(t, ErrInvalidKey, ke.Code)
}

func TestSignDeterministicLowS(t *testing.T) {
	key := testKey(t)
	digest := Hash256([]byte("legacy sighash"))

	sig1, err := key.Sign(digest)
	require.NoError(t, err)
	sig2, err := key.Sign(digest)
	require.NoError(t, err)

	assert.Equal(t, sig1, sig2, "RFC 6979 signatures must be reproducible")
	assert.LessOrEqual(t, len(sig1), 72)
	assert.Equal(t, byte(0x30), sig1[0], "DER sequence tag")

	parsed, err := ecdsa.ParseDERSignature(sig1)
	require.NoError(t, err)
	s := parsed.S()
	assert.False(t, s.IsOverHalfOrder())

	assert.True(t, VerifySignature(key.PublicKey(), digest, sig1))

	other := Hash256([]byte("other"))
	assert.False(t, VerifySignature(key.PublicKey(), other, sig1))
	assert.False(t, VerifySignature(key.PublicKey(), digest, []byte{0x30, 0x00}))
}

func TestParsePublicKey(t *testing.T) {
	raw, _ := hex.DecodeString(keyOnePubKey)
	pub, err := ParsePublicKey(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, pub.Bytes())

	var arr [33]byte
	copy(arr[:], raw)
	assert.Equal(t, arr, pub.SerializeCompressed())

	_, err = ParsePublicKey(raw[:32])
	assert.Error(t, err)

	bad := append([]byte{0x05}, raw[1:]...)
	_, err = ParsePublicKey(bad)
	assert.Error(t, err)
}
