// Package repository handles all interactions with the database.
//
// It executes the statements built by the querybuilder package, runs the
// multi-table writes of a payment as ordered batches inside a transaction,
// and folds flat joined rows back into nested payment and bill graphs.
package repository

import (
	"context"

	"github.com/erlove000/business-services/internal/config"
	"github.com/erlove000/business-services/internal/repository/querybuilder"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// DBTX is the subset of *pgxpool.Pool the repository uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Begin(ctx context.Context) (pgx.Tx, error)
}

// querier runs statements on either the pool or a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PaymentRepository persists and loads payments with their details and bills.
type PaymentRepository struct {
	db     DBTX
	log    *zerolog.Logger
	limits config.SearchConfig
}

// NewPaymentRepository builds a repository over db. A nil limits uses the defaults.
func NewPaymentRepository(db DBTX, logger *zerolog.Logger, limits *config.SearchConfig) *PaymentRepository {
	if limits == nil {
		limits = config.DefaultSearchConfig()
	}

	repoLogger := logger.With().Str("component", "payment_repository").Logger()

	return &PaymentRepository{
		db:     db,
		log:    &repoLogger,
		limits: *limits,
	}
}

// exec runs a single statement.
func (r *PaymentRepository) exec(ctx context.Context, q querier, query querybuilder.Query) error {
	r.logQuery(query)
	_, err := q.Exec(ctx, query.SQL, query.Args)
	return err
}

// execBatch sends queries as one batch and reads every result in order.
//
// The queries of one call share a statement shape, one table per batch.
func (r *PaymentRepository) execBatch(ctx context.Context, q querier, queries []querybuilder.Query) (err error) {
	if len(queries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, query := range queries {
		r.logQuery(query)
		batch.Queue(query.SQL, query.Args)
	}

	results := q.SendBatch(ctx, batch)
	defer func() {
		if closeErr := results.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for range queries {
		if _, err = results.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (r *PaymentRepository) logQuery(query querybuilder.Query) {
	r.log.Debug().
		Str("sql", query.SQL).
		Interface("args", query.Args).
		Msg("executing query")
}
