package types

import "errors"

// Store-level refusal causes. The access layer collapses most of these into
// one generic external message; they stay distinct here for logging and for
// the admin surface.
var (
	ErrTokenNotFound      = errors.New("share token not found")
	ErrTokenExpired       = errors.New("share token expired")
	ErrViewLimitExceeded  = errors.New("share token view limit exceeded")
	ErrPasswordRequired   = errors.New("share password required")
	ErrPasswordMismatch   = errors.New("share password mismatch")
	ErrCollisionExhausted = errors.New("token generation retries exhausted")

	ErrResourceFinalized = errors.New("resource already finalized")
	ErrBundleFinalized   = errors.New("bundle already submitted")
)
