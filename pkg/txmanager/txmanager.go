// Package txmanager runs functions inside database transactions carried via context.
package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
)

const defaultMaxRetries = 3

// Postgres SQLSTATE codes that make a serializable transaction safe to retry.
const (
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
)

var (
	// ErrBeginTx is returned when the transaction cannot be opened.
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx is returned when commit fails with a non-retryable error.
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")
)

// TxBeginner opens transactions. *dbmetrics.DB implements it.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager runs callbacks in transactions and retries serialization conflicts.
type TransactionManager struct {
	db          TxBeginner
	maxRetries  int
	unavailable error
}

// Option configures a TransactionManager.
type Option func(*TransactionManager)

// WithMaxRetries sets how many times a conflicting serializable transaction is retried.
func WithMaxRetries(n int) Option {
	return func(m *TransactionManager) {
		if n >= 0 {
			m.maxRetries = n
		}
	}
}

// WithUnavailableError wraps begin and commit failures, and conflicts left after
// the last retry, with mark.
func WithUnavailableError(mark error) Option {
	return func(m *TransactionManager) {
		m.unavailable = mark
	}
}

// NewTransactionManager creates a TransactionManager over db.
func NewTransactionManager(db TxBeginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{db: db, maxRetries: defaultMaxRetries}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DoSerializable runs fn in a SERIALIZABLE transaction, retrying on 40001/40P01.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var err error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		err = m.run(ctx, opts, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return m.markUnavailable(err)
}

// DoReadOnly runs fn in a read-only REPEATABLE READ transaction.
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return m.markUnavailable(fmt.Errorf("%w: %v", ErrBeginTx, err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		if IsRetryable(err) {
			return err
		}
		return m.markUnavailable(fmt.Errorf("%w: %v", ErrCommitTx, err))
	}
	return nil
}

func (m *TransactionManager) markUnavailable(err error) error {
	if m.unavailable == nil {
		return err
	}
	return fmt.Errorf("%w: %w", m.unavailable, err)
}

// IsRetryable reports whether err (or anything it wraps) is a serialization conflict.
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
	}
	return false
}
