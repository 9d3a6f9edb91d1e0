package migration

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/golang/mock/gomock"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/muhammadchandra19/signal-engine/pkg/questdb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var source = fstest.MapFS{
	"20250601000000_create_signal_events.up.sql":   {Data: []byte("CREATE TABLE signal_events (x INT);\n")},
	"20250601000000_create_signal_events.down.sql": {Data: []byte("DROP TABLE signal_events;")},
	"20250602000000_add_index.up.sql":              {Data: []byte("ALTER TABLE signal_events ADD COLUMN y INT;")},
}

type logEvent struct {
	id      string
	applied bool
}

// expectLog makes the runner read events from schema_migrations.
func expectLog(client *mock.MockQuestDBClient, rows *mock.MockRowsInterface, events ...logEvent) {
	client.EXPECT().Exec(gomock.Any(), createMigrationTable).Return(nil)
	client.EXPECT().Query(gomock.Any(), selectMigrationLog).Return(rows, nil)

	calls := make([]*gomock.Call, 0, len(events)*2+1)
	for _, ev := range events {
		calls = append(calls,
			rows.EXPECT().Next().Return(true),
			rows.EXPECT().Scan(gomock.Any(), gomock.Any()).DoAndReturn(func(dest ...any) error {
				*(dest[0].(*string)) = ev.id
				*(dest[1].(*bool)) = ev.applied
				return nil
			}),
		)
	}
	calls = append(calls, rows.EXPECT().Next().Return(false))
	gomock.InOrder(calls...)
	rows.EXPECT().Err().Return(nil)
	rows.EXPECT().Close()
}

func TestRunner_Load(t *testing.T) {
	runner := NewRunner(nil, source, logger.NewNop())

	migrations, err := runner.Load()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "20250601000000_create_signal_events", migrations[0].ID)
	assert.Equal(t, "create_signal_events", migrations[0].Name)
	assert.Equal(t, 2025, migrations[0].Timestamp.Year())
	assert.Equal(t, "CREATE TABLE signal_events (x INT);", migrations[0].UpSQL)
	assert.Equal(t, "DROP TABLE signal_events;", migrations[0].DownSQL)
	assert.Empty(t, migrations[1].DownSQL)
}

func TestRunner_Applied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockQuestDBClient(ctrl)
	rows := mock.NewMockRowsInterface(ctrl)
	expectLog(client, rows,
		logEvent{id: "a", applied: true},
		logEvent{id: "b", applied: true},
		logEvent{id: "a", applied: false},
	)

	applied, err := NewRunner(client, source, logger.NewNop()).Applied(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"b": true}, applied)
}

func TestRunner_MigrateUp(t *testing.T) {
	testCases := []struct {
		name     string
		steps    int
		mockFn   func(client *mock.MockQuestDBClient, rows *mock.MockRowsInterface)
		assertFn func(t *testing.T, err error)
	}{
		{
			name:  "applies pending migrations only",
			steps: 0,
			mockFn: func(client *mock.MockQuestDBClient, rows *mock.MockRowsInterface) {
				expectLog(client, rows, logEvent{id: "20250601000000_create_signal_events", applied: true})
				client.EXPECT().Exec(gomock.Any(), "ALTER TABLE signal_events ADD COLUMN y INT;").Return(nil)
				client.EXPECT().Exec(gomock.Any(), insertMigrationLog, "20250602000000_add_index", "add_index", true).Return(nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "reapplies a reverted migration",
			steps: 1,
			mockFn: func(client *mock.MockQuestDBClient, rows *mock.MockRowsInterface) {
				expectLog(client, rows,
					logEvent{id: "20250601000000_create_signal_events", applied: true},
					logEvent{id: "20250601000000_create_signal_events", applied: false},
				)
				client.EXPECT().Exec(gomock.Any(), "CREATE TABLE signal_events (x INT);").Return(nil)
				client.EXPECT().Exec(gomock.Any(), insertMigrationLog, "20250601000000_create_signal_events", "create_signal_events", true).Return(nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "exec failure",
			steps: 0,
			mockFn: func(client *mock.MockQuestDBClient, rows *mock.MockRowsInterface) {
				expectLog(client, rows)
				client.EXPECT().Exec(gomock.Any(), "CREATE TABLE signal_events (x INT);").Return(fmt.Errorf("syntax error"))
			},
			assertFn: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "20250601000000_create_signal_events")
			},
		},
		{
			name:  "log table cannot be created",
			steps: 0,
			mockFn: func(client *mock.MockQuestDBClient, rows *mock.MockRowsInterface) {
				client.EXPECT().Exec(gomock.Any(), createMigrationTable).Return(fmt.Errorf("connection reset"))
			},
			assertFn: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "schema_migrations")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mock.NewMockQuestDBClient(ctrl)
			rows := mock.NewMockRowsInterface(ctrl)
			tc.mockFn(client, rows)

			runner := NewRunner(client, source, logger.NewNop())
			tc.assertFn(t, runner.MigrateUp(context.Background(), tc.steps))
		})
	}
}

func TestRunner_MigrateDown(t *testing.T) {
	t.Run("rejects non-positive steps", func(t *testing.T) {
		runner := NewRunner(nil, source, logger.NewNop())
		assert.Error(t, runner.MigrateDown(context.Background(), 0))
	})

	t.Run("fails without down sql", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		client := mock.NewMockQuestDBClient(ctrl)
		rows := mock.NewMockRowsInterface(ctrl)
		expectLog(client, rows,
			logEvent{id: "20250601000000_create_signal_events", applied: true},
			logEvent{id: "20250602000000_add_index", applied: true},
		)

		runner := NewRunner(client, source, logger.NewNop())
		err := runner.MigrateDown(context.Background(), 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "20250602000000_add_index")
	})

	t.Run("reverts applied migration", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		client := mock.NewMockQuestDBClient(ctrl)
		rows := mock.NewMockRowsInterface(ctrl)
		expectLog(client, rows, logEvent{id: "20250601000000_create_signal_events", applied: true})
		client.EXPECT().Exec(gomock.Any(), "DROP TABLE signal_events;").Return(nil)
		client.EXPECT().Exec(gomock.Any(), insertMigrationLog, "20250601000000_create_signal_events", "create_signal_events", false).Return(nil)

		runner := NewRunner(client, source, logger.NewNop())
		assert.NoError(t, runner.MigrateDown(context.Background(), 1))
	})
}
