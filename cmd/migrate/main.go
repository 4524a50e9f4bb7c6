package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"

	"salon-reserve/internal/pkg/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	source := flag.String("source", "file://migrations", "migration source URL")
	action := flag.String("action", "up", "up | down | drop")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, *source, *action); err != nil {
		slog.Error("マイグレーションに失敗しました", "action", *action, "error", err)
		os.Exit(1)
	}
	slog.Info("マイグレーションが完了しました", "action", *action)
}

func run(cfg config.Config, source, action string) error {
	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.DB.User,
		cfg.DB.Password,
		net.JoinHostPort(cfg.DB.Host, cfg.DB.Port),
		cfg.DB.DBName,
		cfg.DB.SSLMode,
	)

	mig, err := migrate.New(source, dsn)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}
	defer mig.Close()

	switch action {
	case "up":
		err = mig.Up()
	case "down":
		err = mig.Steps(-1)
	case "drop":
		err = mig.Down()
	default:
		return fmt.Errorf("unknown action: %s", action)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
