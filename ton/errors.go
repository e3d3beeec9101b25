package ton

import (
	"errors"
	"fmt"
)

// ErrorKind tags a failure of the transfer pipeline
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindConfig is a missing or malformed secret; fatal, fix configuration
	KindConfig
	// KindValidation is a caller error (address, amount)
	KindValidation
	// KindNetwork is a failed or timed out RPC call; safe to retry with a fresh seqno
	KindNetwork
	// KindSigning is a key derivation or transfer construction failure
	KindSigning
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindSigning:
		return "signing"
	default:
		return "unknown"
	}
}

// Error is a tagged transfer error
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the request may succeed
func (e *Error) Retryable() bool {
	return e.Kind == KindNetwork
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
