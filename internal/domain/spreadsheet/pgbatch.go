package spreadsheet

import (
	"context"

	"github.com/jackc/pgx/v5"

	"hrrecords/internal/domain/core"
	"hrrecords/internal/platform/querier"
)

// PgBatches opens import batches as a Postgres transaction. Each row runs in
// its own savepoint.
type PgBatches struct {
	DB    querier.Querier
	Store *core.Store
}

func NewPgBatches(db querier.Querier, store *core.Store) *PgBatches {
	return &PgBatches{DB: db, Store: store}
}

func (p *PgBatches) Begin(ctx context.Context) (Batch, error) {
	tx, err := p.DB.Begin(ctx)
	if err != nil {
		return nil, core.TranslateStoreError("begin import", err)
	}
	return &pgBatch{tx: tx, store: p.Store}, nil
}

type pgBatch struct {
	tx    pgx.Tx
	store *core.Store
}

func (b *pgBatch) Row(ctx context.Context, fn func(repo EmployeeRepo) error) error {
	return querier.InTx(ctx, b.tx, func(sp pgx.Tx) error {
		return fn(b.store.WithDB(sp))
	})
}

func (b *pgBatch) Commit(ctx context.Context) error {
	if err := b.tx.Commit(ctx); err != nil {
		return core.TranslateStoreError("commit import", err)
	}
	return nil
}

func (b *pgBatch) Rollback(ctx context.Context) error {
	return b.tx.Rollback(ctx)
}
