package replica

import (
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"

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
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return sqlstate.Kind(string(pqErr.Code))
	}
	if errors.Is(err, driver.ErrBadConn) {
		return model.ErrStorageUnavailable
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
