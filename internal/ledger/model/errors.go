package model

import "errors"

var (
	// ErrStorageUnavailable marks connection and transport failures of the backing store.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrStorageTimeout marks operations that ran out of time.
	ErrStorageTimeout = errors.New("storage timeout")
	// ErrConstraintViolation marks rejected writes; it signals a caller ordering bug.
	ErrConstraintViolation = errors.New("constraint violation")
)

// Retryable reports whether err is a transient storage failure. All writes are
// idempotent upserts, so a retry after either failure is safe.
func Retryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrStorageTimeout)
}
