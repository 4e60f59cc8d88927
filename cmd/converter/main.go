package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"currency_converter/docs"
	"currency_converter/internal/cli"
	"currency_converter/internal/config"
	"currency_converter/internal/converter"
	"currency_converter/internal/database"
	"currency_converter/internal/external"
	"currency_converter/internal/handlers"
	"currency_converter/internal/logger"
	"currency_converter/internal/metrics"
	"currency_converter/internal/middleware"
	"currency_converter/internal/resolver"
	"currency_converter/internal/worker"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

var errUnknownMode = errors.New("unknown APP_MODE")

// @title Currency Converter API
// @version 1.0
// @description Конвертация сумм по текущему курсу провайдера exchangerate-api.
// @BasePath /
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run собирает зависимости и запускает выбранный режим. Отложенные Close и Stop выполняются до выхода из процесса
func run() error {
	cfg := config.Load()

	// В интерактивном режиме stdout отдан меню
	logOut := os.Stdout
	if cfg.App.Mode == config.ModeCLI {
		logOut = os.Stderr
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, logOut).Logger

	if cfg.App.Mode != config.ModeCLI && cfg.App.Mode != config.ModeServer {
		log.WithField("mode", cfg.App.Mode).Error("Unknown APP_MODE, expected cli or server")
		return errUnknownMode
	}

	if cfg.External.APIKey == "" {
		log.Warn("EXCHANGE_API_KEY is not set, the provider will reject rate lookups")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	rates := external.New(&cfg.External, m, log)

	var (
		journal converter.Journal
		db      *database.DB
	)
	if cfg.Journal.Enabled {
		var err error
		db, err = database.New(&cfg.Database, log)
		if err != nil {
			log.WithError(err).Error("Failed to connect to journal database")
			return err
		}
		defer db.Close()
		journal = db
	}

	svc := converter.New(resolver.New(resolver.DefaultTable()), rates, journal, m, log)

	if cfg.App.Mode == config.ModeServer {
		return runServer(cfg, svc, db, m, log)
	}

	// Ctrl+C завершает процесс сразу, как в обычной консольной программе
	if err := cli.New(svc, os.Stdin, os.Stdout, log).Run(context.Background()); err != nil {
		log.WithError(err).Error("Interactive session failed")
		return err
	}
	return nil
}

func runServer(cfg *config.Config, svc *converter.Service, db *database.DB, m *metrics.Metrics, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Интерфейс, а не *DB, чтобы выключенный журнал давал настоящий nil
	var journalReader handlers.JournalReader
	if db != nil {
		journalReader = db

		w := worker.New(db, log, cfg.Worker.Interval, cfg.Journal.Retention)
		w.Start(ctx)
		defer w.Stop()
	}

	router := mux.NewRouter()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggingMiddleware(log, m))
	router.Use(middleware.CORSMiddleware())

	handlers.New(svc, journalReader, log).RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	docs.SwaggerInfo.Host = addr
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.App.ShutdownTimeout, log)
}

// serve работает до отмены ctx или до ошибки ListenAndServe.
// Ошибка запуска возвращается вызывающему, а не завершает процесс
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, log *logrus.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			log.WithError(err).Error("HTTP server failed")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shut down HTTP server")
		return err
	}

	log.Info("Server stopped")
	return nil
}
