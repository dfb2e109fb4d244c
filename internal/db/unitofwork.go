package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrBusy reports that the write lock could not be taken within the busy
// timeout.
var ErrBusy = errors.New("database is busy")

// UnitOfWork runs one batch-ledger operation atomically. The callback gets a
// DBTX backed by the transaction; callers build tx-scoped repositories on it.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

// WithinTx begins an immediate transaction, so the write lock is held from
// the first read of a batch to commit. A call made with a ctx that already
// carries a transaction joins it instead of opening a second one; the outer
// call owns commit and rollback.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	if tx, ok := TxFromContext(ctx); ok {
		return fn(ctx, tx)
	}
	return runTx(ctx, u.db, func(tx *sql.Tx) DBTX { return tx }, fn)
}

// RunTx is WithinTx with a hook to wrap the transaction handed to fn.
// Test doubles use it to intercept statements.
func RunTx(ctx context.Context, db *sql.DB, wrap func(*sql.Tx) DBTX, fn func(ctx context.Context, tx DBTX) error) error {
	if tx, ok := TxFromContext(ctx); ok {
		return fn(ctx, tx)
	}
	return runTx(ctx, db, wrap, fn)
}

func runTx(ctx context.Context, db *sql.DB, wrap func(*sql.Tx) DBTX, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", busy(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	scoped := wrap(tx)
	if err := fn(withTx(ctx, scoped), scoped); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", busy(err))
	}
	return nil
}

// busy tags SQLITE_BUSY failures with ErrBusy, keeping the driver error.
func busy(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_BUSY {
		return fmt.Errorf("%w: %w", ErrBusy, err)
	}
	return err
}
