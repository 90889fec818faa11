package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
)

var (
	// ErrSerializationConflict means the database refused to commit a
	// transaction because a concurrent one made it unserializable.
	// Transactions failing with it are safe to run again.
	ErrSerializationConflict = errors.New("serialization conflict")

	ErrTimeout          = errors.New("store operation timed out")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// SQLSTATE codes we react to.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeQueryCanceled        = "57014"
	codeLockNotAvailable     = "55P03"
	codeAdminShutdown        = "57P01"
	codeCannotConnectNow     = "57P03"
	classConnectionException = "08"
	classInsufficientRes     = "53"
)

// Classify maps driver and context errors onto the store error taxonomy.
// Errors that already carry a taxonomy sentinel, and errors it does not
// recognise (domain errors included), are returned unchanged.
func Classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSerializationConflict) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrStoreUnavailable) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || (ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == codeSerializationFailure, pqErr.Code == codeDeadlockDetected:
			return fmt.Errorf("%w: %w", ErrSerializationConflict, err)
		case pqErr.Code == codeQueryCanceled, pqErr.Code == codeLockNotAvailable:
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		case pqErr.Code == codeAdminShutdown, pqErr.Code == codeCannotConnectNow,
			pqErr.Code.Class() == classConnectionException, pqErr.Code.Class() == classInsufficientRes:
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return err
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return err
}

// ErrorType names err for metric labels.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrSerializationConflict):
		return "serialization_conflict"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	default:
		return "other"
	}
}
