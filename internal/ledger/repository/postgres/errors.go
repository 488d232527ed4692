package postgres

import (
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/model"
	"github.com/goodnatureofminers/blockinsight7000-ledger/internal/ledger/repository/sqlstate"
)

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return sqlstate.Wrap(op, kindOf(err), err)
}

func kindOf(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return sqlstate.Kind(pgErr.Code)
	}
	if pgconn.Timeout(err) {
		return model.ErrStorageTimeout
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return model.ErrStorageUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return model.ErrStorageTimeout
		}
		return model.ErrStorageUnavailable
	}
	if pgconn.SafeToRetry(err) {
		return model.ErrStorageUnavailable
	}
	return nil
}
