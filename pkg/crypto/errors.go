package crypto

import "fmt"

// KeyError is returned when key material cannot be decoded.
//
// This covers malformed text (bad base58, wrong length, unknown version),
// checksum mismatches and scalars outside the curve order. It is always
// recoverable: the caller decides whether to abort.
type KeyError struct {
	Code    string // Error code (e.g., ErrChecksumMismatch)
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *KeyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("key error [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("key error [%s]: %s", e.Code, e.Message)
}

func (e *KeyError) Unwrap() error { return e.Cause }

// Key error codes.
const (
	ErrInvalidEncoding  = "INVALID_ENCODING"  // Text is not a well-formed WIF
	ErrChecksumMismatch = "CHECKSUM_MISMATCH" // Base58Check checksum does not match
	ErrInvalidKey       = "INVALID_KEY"       // Key bytes are the wrong length or out of range
)
