package signal

import (
	"context"
	"fmt"
	"strings"

	signalv1 "github.com/muhammadchandra19/signal-engine/internal/domain/signal/v1"
	"github.com/muhammadchandra19/signal-engine/pkg/errors"
	"github.com/muhammadchandra19/signal-engine/pkg/questdb"
)

var columns = []string{
	"timestamp", "signal_id", "symbol", "direction", "event", "created_at",
	"open_price", "take_profit_price", "stop_loss_price", "trading_fee_amount",
	"close_price", "realized_pnl", "forced",
}

var insertPrefix = "INSERT INTO signal_events (" + strings.Join(columns, ", ") + ") VALUES "

// Repository represents the repository for signal history.
type Repository struct {
	client questdb.QuestDBClient
}

var _ signalv1.Repository = (*Repository)(nil)

// NewRepository creates a new signal history repository.
func NewRepository(client questdb.QuestDBClient) *Repository {
	return &Repository{
		client: client,
	}
}

// Store stores a single signal event.
func (r *Repository) Store(ctx context.Context, event signalv1.Event) error {
	query := insertPrefix + placeholders(0)
	if err := r.client.Exec(ctx, query, FromSignalEvent(event).values()...); err != nil {
		return errors.NewTracer(string(errors.GeneralRepositoryError)).Wrap(fmt.Errorf("failed to store signal event: %w", err))
	}
	return nil
}

// StoreBatch stores events with one multi-row insert.
func (r *Repository) StoreBatch(ctx context.Context, events []signalv1.Event) error {
	if len(events) == 0 {
		return nil
	}

	var query strings.Builder
	query.WriteString(insertPrefix)
	args := make([]any, 0, len(events)*len(columns))
	for i, event := range events {
		if i > 0 {
			query.WriteString(", ")
		}
		query.WriteString(placeholders(i * len(columns)))
		args = append(args, FromSignalEvent(event).values()...)
	}

	if err := r.client.Exec(ctx, query.String(), args...); err != nil {
		return errors.NewTracer(string(errors.GeneralRepositoryError)).Wrap(fmt.Errorf("failed to store %d signal events: %w", len(events), err))
	}
	return nil
}

// GetByFilter retrieves signal events, newest first.
func (r *Repository) GetByFilter(ctx context.Context, filter Filter) ([]*Event, error) {
	query := "SELECT " + strings.Join(columns, ", ") + " FROM signal_events WHERE 1=1"
	args := []any{}
	argIndex := 1

	if filter.Symbol != "" {
		query += fmt.Sprintf(" AND symbol = $%d", argIndex)
		args = append(args, filter.Symbol)
		argIndex++
	}

	if filter.SignalID != "" {
		query += fmt.Sprintf(" AND signal_id = $%d", argIndex)
		args = append(args, filter.SignalID)
		argIndex++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND timestamp >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND timestamp <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	rows, err := r.client.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query signal events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		err := rows.Scan(
			&e.Timestamp, &e.SignalID, &e.Symbol, &e.Direction, &e.Event, &e.CreatedAt,
			&e.OpenPrice, &e.TakeProfitPrice, &e.StopLossPrice, &e.TradingFeeAmount,
			&e.ClosePrice, &e.RealizedPnL, &e.Forced,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return events, nil
}

// placeholders renders one row of positional parameters starting after offset.
func placeholders(offset int) string {
	var b strings.Builder
	b.WriteByte('(')
	for i := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%d", offset+i+1)
	}
	b.WriteByte(')')
	return b.String()
}
