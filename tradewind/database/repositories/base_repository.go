package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tradewind-gg/tradewind/tradewind/config"
	"github.com/uptrace/bun"
)

// NotFoundError is returned when an entity cannot be resolved. Ownership
// failures are reported with the same error so callers cannot distinguish
// "not yours" from "does not exist".
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// ConflictError is returned when a write collides with existing state.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// QuotaError is returned when a per-user resource cap would be exceeded.
type QuotaError struct {
	Resource string
	Limit    int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("too many active %s: limit is %d, delete one first", e.Resource, e.Limit)
}

// ValidationError is returned for malformed or disallowed input before
// anything is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RepositoryError wraps unexpected store failures with their context.
type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Operation, e.Entity, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

func IsQuota(err error) bool {
	var q *QuotaError
	return errors.As(err, &q)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// BaseRepository carries the shared timeout and error-translation helpers.
type BaseRepository struct {
	db *bun.DB
}

func NewBaseRepository(db *bun.DB) BaseRepository {
	return BaseRepository{db: db}
}

func (br *BaseRepository) DB() *bun.DB {
	return br.db
}

func (br *BaseRepository) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, config.DefaultQueryTimeout)
}

// HandleError translates sql.ErrNoRows into NotFoundError and wraps
// everything else.
func (br *BaseRepository) HandleError(operation, entity string, id interface{}, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return &RepositoryError{Operation: operation, Entity: entity, Err: err}
}

// Transaction executes fn inside a database transaction with the default
// query timeout; it commits on success and rolls back entirely on error.
func (br *BaseRepository) Transaction(ctx context.Context, fn func(context.Context, bun.Tx) error) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	return br.db.RunInTx(timeoutCtx, nil, fn)
}

// TransactionWithTimeout is Transaction with a caller-chosen bound.
func (br *BaseRepository) TransactionWithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context, bun.Tx) error) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return br.db.RunInTx(timeoutCtx, nil, fn)
}
