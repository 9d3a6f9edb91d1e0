package migration

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/muhammadchandra19/signal-engine/pkg/questdb"
)

// QuestDB cannot delete rows, so schema_migrations is an append-only log of
// apply and revert events. The latest event per id decides whether it is applied.
const (
	createMigrationTable = "CREATE TABLE IF NOT EXISTS schema_migrations (id SYMBOL, name STRING, applied BOOLEAN, applied_at TIMESTAMP) TIMESTAMP(applied_at) PARTITION BY YEAR"
	selectMigrationLog   = "SELECT id, applied FROM schema_migrations ORDER BY applied_at"
	insertMigrationLog   = "INSERT INTO schema_migrations VALUES ($1, $2, $3, now())"
)

// Migration is one <timestamp>_<name>.up.sql file and its optional .down.sql sibling.
type Migration struct {
	ID        string
	Name      string
	Timestamp time.Time
	UpSQL     string
	DownSQL   string
}

// Runner applies migrations read from an fs.FS, usually the embedded migrations package.
type Runner struct {
	client questdb.QuestDBClient
	source fs.FS
	log    logger.Interface
}

func NewRunner(client questdb.QuestDBClient, source fs.FS, log logger.Interface) *Runner {
	return &Runner{client: client, source: source, log: log}
}

// Applied returns the ids whose latest log event is an apply.
func (r *Runner) Applied(ctx context.Context) (map[string]bool, error) {
	if err := r.client.Exec(ctx, createMigrationTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	rows, err := r.client.Query(ctx, selectMigrationLog)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var (
			id string
			ok bool
		)
		if err := rows.Scan(&id, &ok); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		if ok {
			applied[id] = true
		} else {
			delete(applied, id)
		}
	}
	return applied, rows.Err()
}

// Load reads every migration of the source, oldest first.
func (r *Runner) Load() ([]Migration, error) {
	ups, err := fs.Glob(r.source, "*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(ups)

	migrations := make([]Migration, 0, len(ups))
	for _, up := range ups {
		m, err := r.read(up)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", up, err)
		}
		migrations = append(migrations, m)
	}
	return migrations, nil
}

func (r *Runner) read(up string) (Migration, error) {
	upSQL, err := fs.ReadFile(r.source, up)
	if err != nil {
		return Migration{}, err
	}

	id := strings.TrimSuffix(path.Base(up), ".up.sql")
	// ids like "001_initial" carry no timestamp
	m := Migration{
		ID:        id,
		Name:      id,
		Timestamp: time.Unix(0, 0).UTC(),
		UpSQL:     strings.TrimSpace(string(upSQL)),
	}

	if prefix, name, ok := strings.Cut(id, "_"); ok {
		m.Name = name
		if ts, err := time.Parse("20060102150405", prefix); err == nil {
			m.Timestamp = ts
		}
	}

	if downSQL, err := fs.ReadFile(r.source, strings.TrimSuffix(up, ".up.sql")+".down.sql"); err == nil {
		m.DownSQL = strings.TrimSpace(string(downSQL))
	}
	return m, nil
}

// MigrateUp applies pending migrations in order; steps <= 0 applies all of them.
func (r *Runner) MigrateUp(ctx context.Context, steps int) error {
	migrations, err := r.Load()
	if err != nil {
		return err
	}
	applied, err := r.Applied(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.ID] {
			continue
		}
		if m.UpSQL == "" {
			r.log.Warn("migration has no up sql", logger.Field{Key: "action", Value: "migrate_up"}, logger.Field{Key: "migration", Value: m.ID})
			continue
		}

		if err := r.client.Exec(ctx, m.UpSQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.ID, err)
		}
		if err := r.client.Exec(ctx, insertMigrationLog, m.ID, m.Name, true); err != nil {
			return fmt.Errorf("record migration %s: %w", m.ID, err)
		}
		r.log.Info("applied migration", logger.Field{Key: "action", Value: "migrate_up"}, logger.Field{Key: "migration", Value: m.ID})

		if steps--; steps == 0 {
			break
		}
	}
	return nil
}

// MigrateDown reverts the latest steps applied migrations, newest first.
func (r *Runner) MigrateDown(ctx context.Context, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("down migrations need a positive step count, got %d", steps)
	}

	migrations, err := r.Load()
	if err != nil {
		return err
	}
	applied, err := r.Applied(ctx)
	if err != nil {
		return err
	}

	for i := len(migrations) - 1; i >= 0 && steps > 0; i-- {
		m := migrations[i]
		if !applied[m.ID] {
			continue
		}
		if m.DownSQL == "" {
			return fmt.Errorf("migration %s has no down sql and cannot be reverted", m.ID)
		}

		if err := r.client.Exec(ctx, m.DownSQL); err != nil {
			return fmt.Errorf("revert migration %s: %w", m.ID, err)
		}
		if err := r.client.Exec(ctx, insertMigrationLog, m.ID, m.Name, false); err != nil {
			return fmt.Errorf("record revert of %s: %w", m.ID, err)
		}
		r.log.Info("reverted migration", logger.Field{Key: "action", Value: "migrate_down"}, logger.Field{Key: "migration", Value: m.ID})
		steps--
	}
	return nil
}
