// Package tx error types.
//
// These error types are returned by the transaction codec and by the
// signing pipeline built on top of it (pkg/crypto, pkg/roles). They carry
// a Code for programmatic handling and wrap the underlying cause.
package tx

import "fmt"

// ParseError is returned when raw bytes do not decode to a transaction.
//
// Common causes: truncated data, trailing bytes, non-canonical compact
// sizes, oversized scripts.
type ParseError struct {
	Code    string // Error code (usually ErrMalformed)
	Message string // Human-readable error message
	Offset  int64  // Byte offset where decoding stopped (-1 if unknown)
	Cause   error  // Underlying decode error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error at offset %d: %s: %v", e.Offset, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// SighashError is returned when a signature hash cannot be computed.
//
// The only failure is an input index outside the transaction, which is a
// caller bug rather than a data problem.
type SighashError struct {
	InputIndex uint32 // Index of the input that caused the error
	Message    string // Human-readable error message
	Cause      error  // Underlying error (if any)
}

func (e *SighashError) Error() string {
	return fmt.Sprintf("sighash error at input %d: %s", e.InputIndex, e.Message)
}

func (e *SighashError) Unwrap() error { return e.Cause }

// SignatureError is returned when an input cannot be signed.
type SignatureError struct {
	InputIndex uint32 // Index of the input that caused the error
	Code       string // Error code (e.g., ErrInvalidSignature)
	Message    string // Human-readable error message
	Cause      error  // Underlying error (if any)
}

func (e *SignatureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("signature error at input %d [%s]: %s: %v", e.InputIndex, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("signature error at input %d [%s]: %s", e.InputIndex, e.Code, e.Message)
}

func (e *SignatureError) Unwrap() error { return e.Cause }

// ProposalError is returned when a transaction skeleton cannot be built.
type ProposalError struct {
	Code    string // Error code (e.g., ErrInvalidInput)
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *ProposalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("proposal error [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("proposal error [%s]: %s", e.Code, e.Message)
}

func (e *ProposalError) Unwrap() error { return e.Cause }

// CombineError is returned when independently signed copies cannot be merged.
type CombineError struct {
	Code    string // Error code (e.g., ErrConflictingData)
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *CombineError) Error() string {
	return fmt.Sprintf("combine error [%s]: %s", e.Code, e.Message)
}

func (e *CombineError) Unwrap() error { return e.Cause }

// FinalizationError is returned when a transaction is not ready for broadcast.
type FinalizationError struct {
	Code    string // Error code (e.g., ErrIncomplete)
	Message string // Human-readable error message
}

func (e *FinalizationError) Error() string {
	return fmt.Sprintf("finalization error [%s]: %s", e.Code, e.Message)
}

// Error codes used throughout the signing pipeline.
const (
	ErrInvalidInput     = "INVALID_INPUT"     // Input data is invalid or malformed
	ErrInvalidSighash   = "INVALID_SIGHASH"   // Signature hash computation failed
	ErrInvalidSignature = "INVALID_SIGNATURE" // Signature is invalid or doesn't verify
	ErrKeyMismatch      = "KEY_MISMATCH"      // Key does not control the spent output
	ErrIncomplete       = "INCOMPLETE"        // Transaction is missing scripts
	ErrConflictingData  = "CONFLICTING_DATA"  // Conflicting data when combining
	ErrMalformed        = "MALFORMED"         // Bytes do not decode
)
