package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staff-shift-service/internal/api"
	"staff-shift-service/internal/config"
	"staff-shift-service/internal/notification"
	"staff-shift-service/internal/repository"
	"staff-shift-service/internal/service"
	"staff-shift-service/pkg/clock"
	"staff-shift-service/pkg/telegram"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetServerConfig()
	logrus.Info("Config initialized...")

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		// Дубликат ключа должен приходить как gorm.ErrDuplicatedKey,
		// на этом держится инвариант одной активной сессии
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true, // SQLite ограничения
	})
	if err != nil {
		logrus.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatal("Failed to get database instance:", err)
	}

	if _, err = sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logrus.Infof("Warning: Failed to enable foreign keys: %v", err)
	}

	shiftRepo, err := repository.NewGormShiftRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create shift repository")
	}

	sessionRepo, err := repository.NewGormWorkingSessionRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create working session repository")
	}

	storeRepo, err := repository.NewGormStoreRepository(db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create store repository")
	}

	// Оповещения уходят в Telegram, если задан токен, иначе в лог
	var notifier notification.Notifier = notification.NewLogNotifier()
	if cfg.TelegramToken != "" && cfg.ManagerChatID != 0 {
		client, err := telegram.NewClient(cfg.TelegramToken)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to create Telegram client")
		}
		notifier = notification.NewTelegramNotifier(client, cfg.ManagerChatID)
		logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)
	}

	clk := clock.System()

	storeService := service.NewStoreService(storeRepo)
	shiftService := service.NewShiftService(shiftRepo, notifier, clk)
	validationService := service.NewShiftValidationService(shiftRepo, sessionRepo)
	sessionService := service.NewWorkingSessionService(
		sessionRepo,
		validationService,
		storeService,
		notifier,
		clk,
	)

	router := api.NewRouter(shiftService, sessionService)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logrus.Infof("Server listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Server failed:", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Infof("Error shutting down server: %v", err)
	}

	if err := sqlDB.Close(); err != nil {
		logrus.Infof("Error closing database: %v", err)
	}

	logrus.Info("Server stopped gracefully")
}
