package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/user/wealth-sprint/config"
	"github.com/user/wealth-sprint/internal/api"
	"github.com/user/wealth-sprint/internal/game"
	"github.com/user/wealth-sprint/internal/recorder"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.json", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		setupLogger("info").Fatal("Failed to load configuration", zap.Error(err))
	}

	// Set up logger
	logger := setupLogger(cfg.Server.LogLevel)
	defer logger.Sync()

	// Load game data
	data, err := game.NewDataLoader(cfg.Market.DataDir).LoadGameData()
	if err != nil {
		logger.Fatal("Failed to load game data", zap.Error(err))
	}
	logger.Info("Loaded game data",
		zap.Int("instruments", len(data.Instruments)),
		zap.Int("roles", len(data.Roles)))

	// Initialize game manager
	gameManager := game.NewGameManager(cfg, data)
	gameManager.SetLogger(logger)

	resumed, err := gameManager.Resume()
	if err != nil {
		logger.Fatal("Failed to load saved game", zap.String("path", cfg.Storage.SavePath), zap.Error(err))
	}
	snap := gameManager.Snapshot()
	logger.Info("Game ready",
		zap.Bool("resumed", resumed),
		zap.Int("day", snap.Day),
		zap.String("net_worth", snap.NetWorth.StringFixed(2)))

	// History recorder
	var history api.HistoryReader
	if cfg.Storage.HistoryPath != "" {
		rec, err := openRecorder(cfg.Storage.HistoryPath)
		if err != nil {
			logger.Fatal("Failed to open history database", zap.Error(err))
		}
		defer rec.Close()
		gameManager.SetRecorder(rec)
		history = rec
		logger.Info("Recording history", zap.String("path", cfg.Storage.HistoryPath))
	}

	// Set up HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: api.New(logger, gameManager, history).Handler(),
	}

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Start the day scheduler after everything else is initialized
	var scheduler *game.DayScheduler
	if cfg.Scheduler.Enabled {
		scheduler = game.NewDayScheduler(gameManager, cfg.Scheduler.DayCron, cfg.Scheduler.AutosaveEveryDays)
		if err := scheduler.Start(); err != nil {
			logger.Fatal("Failed to start day scheduler", zap.Error(err))
		}
	}

	// Wait for shutdown signal
	waitForShutdown(logger)

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	if err := gameManager.Save(); err != nil {
		logger.Error("Failed to save game on shutdown", zap.Error(err))
	} else {
		logger.Info("Game saved", zap.String("path", cfg.Storage.SavePath))
	}
}

func setupLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, _ := config.Build()
	return logger
}

func openRecorder(path string) (*recorder.SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return recorder.NewSQLiteRecorder(path)
}

func waitForShutdown(logger *zap.Logger) {
	// Set up channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Perform cleanup
	logger.Info("Shutting down")
}
