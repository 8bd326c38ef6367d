// cmd/api/main.go
package main

import (
	"context"
	"controle-gastos/internal/config"
	"controle-gastos/internal/handler"
	"controle-gastos/internal/storage"
	"controle-gastos/internal/storage/memory"
	"controle-gastos/internal/storage/postgres"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.MustLoad()

	// Настройка логгера
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	store, closeStore := openStorage(cfg)
	defer closeStore()

	gin.SetMode(gin.ReleaseMode)
	router := handler.NewRouter(handler.NewHandler(store))

	slog.Info("🚀 Сервер запущен", "port", cfg.ServerPort, "storage", cfg.StorageBackend)
	if err := router.Run(cfg.ServerPort); err != nil {
		slog.Error("Сервер завершил работу с ошибкой", "error", err)
		os.Exit(1)
	}
}

func openStorage(cfg config.Config) (storage.Storage, func()) {
	if cfg.StorageBackend == config.BackendMemory {
		slog.Warn("Данные хранятся в памяти и пропадут после перезапуска")
		return memory.NewStorage(), func() {}
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DBConn)
	if err != nil {
		slog.Error("Не удалось подключиться к БД", "error", err)
		os.Exit(1)
	}
	if err := pool.Ping(ctx); err != nil {
		slog.Error("БД не отвечает", "error", err)
		os.Exit(1)
	}
	return postgres.NewStorage(pool), pool.Close
}
