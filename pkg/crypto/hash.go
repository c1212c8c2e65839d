package crypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160"
)

// Hash160 computes RIPEMD160(SHA256(data)), the hash embedded in P2PKH
// locking scripts and addresses.
func Hash160(data []byte) [20]byte {
	sha := sha256.Sum256(data)

	rip := ripemd160.New()
	_, _ = rip.Write(sha[:])

	var out [20]byte
	copy(out[:], rip.Sum(nil))
	return out
}

// Hash256 computes SHA256(SHA256(data)). It is the transaction ID hash,
// the sighash digest and the Base58Check checksum source.
func Hash256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}
