package questdb

import (
	"context"

	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// RowsInterface is the subset of pgx.Rows the repositories iterate with.
type RowsInterface interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

// QuestDBClient runs SQL against QuestDB over its PostgreSQL wire endpoint.
// QuestDB has no transactions and no COPY on that endpoint, so neither is exposed.
type QuestDBClient interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (RowsInterface, error)

	Ping(ctx context.Context) error
	Close()
}

var _ RowsInterface = pgx.Rows(nil)
