package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Hossain-2402/class-routine-reminder/internal/config"
	"github.com/Hossain-2402/class-routine-reminder/internal/notify"
	"github.com/Hossain-2402/class-routine-reminder/internal/scheduler"
	"github.com/Hossain-2402/class-routine-reminder/internal/server"
	"github.com/Hossain-2402/class-routine-reminder/internal/store"
)

type App struct {
	cfg  config.Config
	log  *zap.Logger
	repo store.Repo
}

func New(cfg config.Config, log *zap.Logger) *App {
	return &App{cfg: cfg, log: log}
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting class-routine-reminder",
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("db", a.cfg.DBPath),
	)

	// Open SQLite and run migrations.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	notifier, err := a.buildNotifier(repo)
	if err != nil {
		return err
	}

	sched := scheduler.New(repo, a.log, notifier)
	srv := server.New(a.log, repo, sched, a.cfg.VAPIDPublicKey)

	httpSrv := &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sched.Run(ctx)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	// Create a short-lived shutdown context and cancel it immediately after use.
	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}

	if a.repo != nil {
		_ = a.repo.Close()
	}
	return nil
}

// buildNotifier assembles the delivery channels that are configured.
// Running with none is allowed: saving and viewing routines still works,
// and delivery attempts report "no channel".
func (a *App) buildNotifier(repo store.Repo) (*notify.Fanout, error) {
	var channels []notify.Notifier

	if a.cfg.VAPIDPublicKey != "" && a.cfg.VAPIDPrivateKey != "" {
		channels = append(channels, notify.NewWebPush(
			repo, a.log, a.cfg.VAPIDPublicKey, a.cfg.VAPIDPrivateKey, a.cfg.VAPIDSubject,
		))
		a.log.Info("web push delivery enabled")
	} else {
		a.log.Warn("VAPID keys not set, web push delivery disabled")
	}

	if a.cfg.TelegramBotToken != "" {
		tg, err := notify.NewTelegram(a.cfg.TelegramBotToken, repo, a.log)
		if err != nil {
			a.log.Error("telegram init failed", zap.Error(err))
			return nil, err
		}
		channels = append(channels, tg)
		a.log.Info("telegram delivery enabled")
	}

	return notify.NewFanout(a.log, channels...), nil
}
