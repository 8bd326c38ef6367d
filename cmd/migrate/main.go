// cmd/migrate/main.go
package main

import (
	"context"
	"controle-gastos/internal/config"
	"controle-gastos/internal/storage/postgres"
	"log/slog"
	"os"
)

func main() {
	cfg := config.MustLoad()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))

	slog.Info("Применяем миграции")

	if err := postgres.Migrate(context.Background(), cfg.DBConn); err != nil {
		slog.Error("Миграции завершились с ошибкой", "error", err)
		os.Exit(1)
	}

	slog.Info("✅ Миграции применены")
}
