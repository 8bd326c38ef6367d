// cmd/bot/main.go
package main

import (
	"context"
	"controle-gastos/internal/bot"
	"controle-gastos/internal/config"
	"controle-gastos/internal/storage"
	"controle-gastos/internal/storage/memory"
	"controle-gastos/internal/storage/postgres"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.MustLoad()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))

	if cfg.TelegramToken == "" {
		slog.Error("TELEGRAM_BOT_TOKEN not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.Storage
	if cfg.StorageBackend == config.BackendMemory {
		store = memory.NewStorage()
	} else {
		db, err := pgxpool.New(ctx, cfg.DBConn)
		if err != nil {
			slog.Error("Failed to connect to DB", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = postgres.NewStorage(db)
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		slog.Error("Не удалось инициализировать Telegram бота", "error", err)
		os.Exit(1)
	}
	slog.Info("Bot started", "username", api.Self.UserName)

	b := bot.New(store)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			slog.Info("Bot stopped")
			return
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			slog.Info("📥 Получено сообщение", "chat_id", update.Message.Chat.ID, "text", update.Message.Text)

			msg := tgbotapi.NewMessage(update.Message.Chat.ID, b.Handle(ctx, update.Message.Text))
			msg.ParseMode = tgbotapi.ModeMarkdown
			if _, err := api.Send(msg); err != nil {
				slog.Error("Не удалось отправить ответ", "error", err)
			}
		}
	}
}
