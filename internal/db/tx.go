package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hallbook/internal/metrics"

	"github.com/jmoiron/sqlx"
)

const defaultTxTimeout = 5 * time.Second

var ErrNilDatabase = errors.New("database handle must not be nil")

// TxFunc is the body of a transaction. It must do all its work through tx
// and must not commit or roll back itself.
type TxFunc func(ctx context.Context, tx *sqlx.Tx) error

// TxManager runs functions inside transactions, serializable unless the
// caller asks for a locked one.
//
// Every call gets a deadline (the caller's, or the manager default), is
// rolled back on any error or panic, and is retried from scratch when the
// database reports a serialization failure.
type TxManager struct {
	db           *sqlx.DB
	timeout      time.Duration
	retryOptions []RetryOption
	logger       *slog.Logger
}

type TxOption func(*TxManager) error

// WithTimeout bounds transactions whose context carries no deadline.
func WithTimeout(d time.Duration) TxOption {
	return func(m *TxManager) error {
		if d <= 0 {
			return fmt.Errorf("transaction timeout must be positive, got %s", d)
		}
		m.timeout = d
		return nil
	}
}

func WithRetry(options ...RetryOption) TxOption {
	return func(m *TxManager) error {
		if _, err := newRetryConfig(options...); err != nil {
			return err
		}
		m.retryOptions = append(m.retryOptions, options...)
		return nil
	}
}

func WithLogger(logger *slog.Logger) TxOption {
	return func(m *TxManager) error {
		m.logger = logger
		return nil
	}
}

func NewTxManager(db *sqlx.DB, options ...TxOption) (*TxManager, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}

	m := &TxManager{
		db:      db,
		timeout: defaultTxTimeout,
		logger:  slog.Default(),
	}
	for _, option := range options {
		if err := option(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Run executes fn against the pool outside a transaction, under the same
// default deadline WithinTx applies. It is meant for reads; its errors are
// passed through Classify and never retried.
func (m *TxManager) Run(ctx context.Context, fn func(ctx context.Context, q *sqlx.DB) error) error {
	ctx, cancel := m.withDeadline(ctx)
	defer cancel()

	return Classify(ctx, fn(ctx, m.db))
}

// WithinTx runs fn in a serializable transaction and commits it when fn
// returns nil. Errors are passed through Classify, so callers can match
// ErrSerializationConflict, ErrTimeout and ErrStoreUnavailable.
func (m *TxManager) WithinTx(ctx context.Context, fn TxFunc) error {
	return m.within(ctx, sql.LevelSerializable, fn)
}

// WithinLockedTx runs fn in a READ COMMITTED transaction whose first
// statement takes the advisory lock on key. Statements in fn take their
// snapshot after the lock is granted, so they see everything the previous
// holder committed. Every writer of the guarded rows must go through the
// same key.
func (m *TxManager) WithinLockedTx(ctx context.Context, key string, fn TxFunc) error {
	return m.within(ctx, sql.LevelReadCommitted, func(ctx context.Context, tx *sqlx.Tx) error {
		if err := LockKey(ctx, tx, key); err != nil {
			return err
		}
		return fn(ctx, tx)
	})
}

func (m *TxManager) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.timeout)
}

func (m *TxManager) within(ctx context.Context, level sql.IsolationLevel, fn TxFunc) error {
	ctx, cancel := m.withDeadline(ctx)
	defer cancel()

	options := append([]RetryOption{
		WithRetryHook(func(attempt int, err error) {
			metrics.RecordTxRetry(ErrorType(err))
			m.logger.Warn("retrying transaction", "attempt", attempt, "error", err)
		}),
	}, m.retryOptions...)

	return Retry(ctx, func(ctx context.Context) error {
		return m.runOnce(ctx, level, fn)
	}, options...)
}

func (m *TxManager) runOnce(ctx context.Context, level sql.IsolationLevel, fn TxFunc) (err error) {
	tx, err := m.db.BeginTxx(ctx, &sql.TxOptions{Isolation: level})
	if err != nil {
		return Classify(ctx, fmt.Errorf("begin transaction: %w", err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				m.logger.Error("rollback failed", "error", rbErr)
			}
		}
	}()

	if err = fn(ctx, tx); err != nil {
		return Classify(ctx, err)
	}

	if err = tx.Commit(); err != nil {
		return Classify(ctx, fmt.Errorf("commit transaction: %w", err))
	}

	return nil
}

// LockKey takes a transaction-scoped advisory lock on key. The lock is
// released when tx commits or rolls back.
func LockKey(ctx context.Context, tx *sqlx.Tx, key string) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("acquire advisory lock %q: %w", key, err)
	}
	return nil
}
