// Package sqlstate maps Postgres SQLSTATE codes onto the ledger error taxonomy.
package sqlstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

// Kind returns the ledger error kind for a SQLSTATE code, or nil when the code
// does not belong to the taxonomy.
func Kind(code string) error {
	switch {
	case code == pgerrcode.QueryCanceled:
		return model.ErrStorageTimeout
	case code == pgerrcode.LockNotAvailable:
		return model.ErrStorageTimeout
	case pgerrcode.IsIntegrityConstraintViolation(code):
		return model.ErrConstraintViolation
	case pgerrcode.IsConnectionException(code),
		pgerrcode.IsInsufficientResources(code),
		pgerrcode.IsOperatorIntervention(code):
		return model.ErrStorageUnavailable
	default:
		return nil
	}
}

// Wrap annotates err with the operation name and, when known, the ledger
// error kind. The original error stays reachable through errors.As.
func Wrap(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	if kind == nil && errors.Is(err, context.DeadlineExceeded) {
		kind = model.ErrStorageTimeout
	}
	if kind == nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
