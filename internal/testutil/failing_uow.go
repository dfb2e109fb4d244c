package testutil

import (
	"context"
	"database/sql"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/lotline/internal/db"
)

// FailOnNthExecUoW behaves like db.SQLiteUnitOfWork but makes the FailOn-th
// ExecContext call inside the transaction return Err, so tests can check
// that a multi-write operation leaves nothing behind.
//
// Calls are counted from 1. When Match is set, only statements containing
// it are counted. Reads are never counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Match  string
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	wrap := func(tx *sql.Tx) db.DBTX {
		return &failOnNthExec{DBTX: tx, failOn: u.FailOn, match: u.Match, err: u.Err}
	}
	return db.RunTx(ctx, u.DB, wrap, fn)
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	match  string
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.match == "" || strings.Contains(query, f.match) {
		if f.count.Add(1) == f.failOn {
			return nil, f.err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
