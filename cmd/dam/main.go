package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btggithub/DAM/internal/config"
	"github.com/btggithub/DAM/internal/notify"
	"github.com/btggithub/DAM/internal/observability/logging"
	"github.com/btggithub/DAM/internal/observability/metrics"
	"github.com/btggithub/DAM/internal/scheduler"
	"github.com/btggithub/DAM/internal/service/impl"
	"github.com/btggithub/DAM/internal/store"
	httpx "github.com/btggithub/DAM/internal/transport/http"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: "dam",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)

	logger.Info("starting service")

	metrics.MustRegister("dam")

	gcfg := &gorm.Config{TranslateError: true}
	if cfg.LogSQL {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	} else {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gcfg)
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)
	if err := st.AutoMigrate(); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	mailer := notify.NewSMTPMailer(notify.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.EmailFrom,
	}, logger)
	dispatcher := notify.NewDispatcher(st, mailer, logger)

	pw := impl.NewPasswordServiceBcrypt(cfg.BcryptCost)
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		TTL:        cfg.TokenTTL,
		SigningKey: []byte(cfg.SigningKey),
	})
	as := impl.NewAuthServiceImpl(st, pw, ts, dispatcher, cfg.BaseURL)

	sched := scheduler.New(st, dispatcher, nil, logger, scheduler.Config{
		DomainCheckAt:   cfg.DomainCheckAt,
		ProviderCheckAt: cfg.ProviderCheckAt,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched.Run(ctx)

	h := httpx.NewHandler(as, ts, st, sched)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.Router(cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
