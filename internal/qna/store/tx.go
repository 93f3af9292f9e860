package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	dErrors "qna/pkg/domain-errors"
	txcontext "qna/pkg/platform/tx"
)

// defaultTxTimeout bounds a deletion transaction. The workflow is
// synchronous and sized by the answer collection, so a short ceiling is
// enough to catch a wedged store.
const defaultTxTimeout = 5 * time.Second

// MemoryTx provides the transactional boundary for the in-memory stores:
// a coarse lock that serializes whole workflows. Concurrent deletion
// attempts on the same question therefore observe a consistent snapshot.
type MemoryTx struct {
	mu      sync.Mutex
	timeout time.Duration
}

func NewMemoryTx() *MemoryTx {
	return &MemoryTx{}
}

func (t *MemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	return fn(ctx)
}

// SQLTx provides the transactional boundary for the PostgreSQL stores. It
// opens a database transaction, threads it through the context
// (pkg/platform/tx) so every store call inside fn joins it, and commits
// only if fn succeeds.
type SQLTx struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLTx(db *sql.DB) *SQLTx {
	return &SQLTx{db: db}
}

func (t *SQLTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
