package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"smart-tasks/internal/auth"
	"smart-tasks/internal/cache"
	"smart-tasks/internal/config"
	"smart-tasks/internal/httpapi"
	"smart-tasks/internal/logging"
	"smart-tasks/internal/notify"
	"smart-tasks/internal/repository"
	"smart-tasks/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Fatalf("dotenv: %v", err)
	}

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logrus.Fatalf("taskd: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskd",
		Short:         "Run the task API server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(newUserCmd())
	return root
}

// backend is the configuration, logger and database shared by every command.
type backend struct {
	cfg config.Config
	log *logrus.Logger
	db  *gorm.DB
}

func openBackend() (*backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := logging.New(cfg.Env, cfg.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	db, err := repository.NewDB(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	return &backend{cfg: cfg, log: log, db: db}, nil
}

func (b *backend) Close() {
	if sqlDB, err := b.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func serve(ctx context.Context) error {
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()
	cfg, log := b.cfg, b.log

	var rc *redis.Client
	if cfg.Redis.URL != "" {
		rc, err = cache.NewClient(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer rc.Close()
	}
	statsCache := cache.NewStatsCache(rc, cfg.Redis.StatsTTL)

	userRepo := repository.NewUserRepository(b.db)
	taskRepo := repository.NewTaskRepository(b.db)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	userSvc := service.NewUserService(userRepo, issuer)
	taskSvc := service.NewTaskService(taskRepo, statsCache)
	reportSvc := service.NewReportService(userRepo, taskRepo)

	if cfg.Digest.Time != "" {
		scheduler, err := startDigest(cfg.Digest, reportSvc, log)
		if err != nil {
			return fmt.Errorf("schedule digest: %w", err)
		}
		defer scheduler.Stop()
	}

	e := httpapi.New(httpapi.Deps{
		Tasks:       taskSvc,
		Users:       userSvc,
		Reports:     reportSvc,
		Issuer:      issuer,
		Ping:        pinger(b.db),
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		log.WithField("addr", cfg.Addr()).Info("server is running")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped with error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown http server")
	}
	log.Info("Shutdown complete.")
	return nil
}

func startDigest(cfg config.DigestConfig, reports *service.ReportService, log *logrus.Logger) (*service.SchedulerService, error) {
	var notifier notify.Notifier = notify.NewLog(log)
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		notifier = tg
	}

	scheduler := service.NewSchedulerService(time.Local, log)
	if _, err := scheduler.ScheduleDaily(cfg.Time, "digest", func(ctx context.Context) error {
		text, err := reports.DailySummary(ctx, time.Now())
		if err != nil {
			return err
		}
		return notifier.Notify(ctx, text)
	}); err != nil {
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}

func pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
