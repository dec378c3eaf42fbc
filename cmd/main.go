package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "beltsense/docs" // swagger spec registration
	"beltsense/internal/handlers"
	"beltsense/internal/llm"
	"beltsense/internal/logger"
	"beltsense/internal/notify"
	"beltsense/internal/repository"
	"beltsense/internal/repository/db"
	"beltsense/internal/server"
	"beltsense/internal/service"

	"github.com/spf13/viper"
)

const (
	defaultFeedTick = 10 * time.Second
	defaultLLMURL   = "http://localhost:11434"
	defaultLLMModel = "llama3.2"
)

func main() {
	// load config.yml first so the log level is configurable
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(viper.GetString("log_level"))

	// open DB
	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)
	hub := notify.NewHub(log)
	model := llm.NewClient(
		configOr("llm.url", defaultLLMURL),
		configOr("llm.model", defaultLLMModel),
		viper.GetDuration("llm.timeout"),
	)
	services := service.NewService(service.Deps{
		Repos:          repos,
		Model:          model,
		Notifier:       notify.NewTrigger(hub, log),
		OnSessionReset: hub.SessionReset,
		ChatTimeout:    viper.GetDuration("chat.session_timeout"),
		ChatPoll:       viper.GetDuration("chat.poll_interval"),
		Log:            log,
	})
	apiHandler := handlers.NewHandler(services, hub, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start sensor feed (via composed service)
	go services.Feed.Run(ctx, feedTick())

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// configOr reads a config string with a fallback.
func configOr(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func feedTick() time.Duration {
	if d := viper.GetDuration("feed.tick"); d > 0 {
		return d
	}
	return defaultFeedTick
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "beltsense.db")
		dbPath = "beltsense.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		// ErrServerClosed is the normal outcome of a graceful shutdown.
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
