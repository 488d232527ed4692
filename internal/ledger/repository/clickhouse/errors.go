package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
)

// Server exception codes that map onto the ledger error taxonomy.
const (
	codeTypeMismatch               int32 = 53
	codeTimeoutExceeded            int32 = 159
	codeTooManySimultaneousQueries int32 = 202
	codeSocketTimeout              int32 = 209
	codeNetworkError               int32 = 210
	codeMemoryLimitExceeded        int32 = 241
	codeTooManyParts               int32 = 252
	codeQueryWasCancelled          int32 = 394
)

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if kind := kindOf(err); kind != nil {
		return fmt.Errorf("%s: %w: %w", op, kind, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func kindOf(err error) error {
	var exception *clickhouse.Exception
	if errors.As(err, &exception) {
		switch exception.Code {
		case codeTimeoutExceeded, codeSocketTimeout, codeQueryWasCancelled:
			return model.ErrStorageTimeout
		case codeNetworkError, codeTooManySimultaneousQueries, codeMemoryLimitExceeded, codeTooManyParts:
			return model.ErrStorageUnavailable
		case codeTypeMismatch:
			return model.ErrConstraintViolation
		default:
			return nil
		}
	}

	if errors.Is(err, clickhouse.ErrAcquireConnTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return model.ErrStorageTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return model.ErrStorageTimeout
		}
		return model.ErrStorageUnavailable
	}
	return nil
}
