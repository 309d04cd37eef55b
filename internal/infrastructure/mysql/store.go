package mysql

import (
	"context"
	"errors"
	"time"

	driver "github.com/go-sql-driver/mysql"

	apperrors "eventcheckout/internal/errors"
)

const (
	errDuplicateEntry   = 1062
	errLockWaitTimeout  = 1205
	errDeadlockDetected = 1213
)

// Timeout bounds every storage call made by a repository so that a slow
// database surfaces as a StorageError instead of hanging the request.
type Timeout time.Duration

func (t Timeout) Context(parent context.Context) (context.Context, context.CancelFunc) {
	if t <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, time.Duration(t))
}

// Wrap converts a driver failure into the infrastructure error category.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return apperrors.NewStorageError(op, err)
}

// IsRetryable reports deadlocks, lock wait timeouts and unique key
// collisions, all of which a fresh transaction attempt may resolve.
func IsRetryable(err error) bool {
	var mysqlErr *driver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case errDeadlockDetected, errLockWaitTimeout, errDuplicateEntry:
			return true
		}
	}
	return false
}

// IsDuplicateEntry reports a unique key violation.
func IsDuplicateEntry(err error) bool {
	var mysqlErr *driver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry
}
