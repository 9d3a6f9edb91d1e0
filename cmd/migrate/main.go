package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/muhammadchandra19/signal-engine/migrations"
	"github.com/muhammadchandra19/signal-engine/pkg/config"
	"github.com/muhammadchandra19/signal-engine/pkg/logger"
	"github.com/muhammadchandra19/signal-engine/pkg/migration"
	"github.com/muhammadchandra19/signal-engine/pkg/questdb"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s up|down [steps]\n", os.Args[0])
	}
	flag.Parse()

	direction, steps, err := parseArgs(flag.Args())
	if err != nil {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := migrate(context.Background(), log, direction, steps); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "migrate_" + direction})
		os.Exit(1)
	}

	log.Info("migrations completed", logger.Field{Key: "direction", Value: direction})
}

func parseArgs(args []string) (string, int, error) {
	if len(args) == 0 || (args[0] != "up" && args[0] != "down") {
		return "", 0, fmt.Errorf("direction must be up or down")
	}

	// zero steps applies every pending migration going up, and one going down
	steps := 0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return "", 0, fmt.Errorf("steps must be a non-negative integer")
		}
		steps = n
	}
	return args[0], steps, nil
}

func migrate(ctx context.Context, log logger.Interface, direction string, steps int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		return err
	}
	defer client.Close()

	runner := migration.NewRunner(client, migrations.FS, log)
	if direction == "down" {
		return runner.MigrateDown(ctx, max(steps, 1))
	}
	return runner.MigrateUp(ctx, steps)
}
