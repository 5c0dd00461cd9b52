package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/assistant"
	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/config"
	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/llm"
	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/scheduler"
	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/store"
	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/transport"
	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/twilio"
)

// App wires the webhook transport, the command router and the reminder
// scheduler around one shared user store.
type App struct {
	cfg config.Config
	log *zap.Logger
	loc *time.Location
}

// New validates configuration that must hold before anything starts.
func New(cfg config.Config, log *zap.Logger) (*App, error) {
	loc, err := time.LoadLocation(cfg.DefaultTZ)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.DefaultTZ, err)
	}
	return &App{cfg: cfg, log: log, loc: loc}, nil
}

// Run assembles everything and blocks until a shutdown signal.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting meu-faz-tudo",
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("tz", a.cfg.DefaultTZ),
		zap.Bool("persistent", a.cfg.DBPath != ""),
	)

	var repo store.Repo
	if a.cfg.DBPath != "" {
		sq, err := store.OpenSQLite(ctx, a.cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		repo = sq
		a.log.Info("sqlite ready", zap.String("path", a.cfg.DBPath))
	} else {
		repo = store.NewMemory()
	}
	defer func() { _ = repo.Close() }()

	sender := twilio.NewSender(a.cfg.TwilioAccountSID, a.cfg.TwilioAuthToken, a.cfg.TwilioFrom, a.log)
	completer := llm.NewClient(a.cfg.OpenAIAPIKey, a.cfg.OpenAIModel)
	router := assistant.NewRouter(a.log, repo, completer, a.loc)
	webhook := transport.New(a.log, router, sender, assistant.ApologyText())

	httpSrv := &http.Server{
		Addr:    a.cfg.HTTPAddr,
		Handler: webhook.Routes(),
		// The webhook acks without waiting on processing; short timeouts
		// are safe and keep Twilio retries snappy.
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	sched := scheduler.New(repo, a.log, sender, a.loc)
	go sched.Run(ctx)

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shCtx); err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}
	webhook.Wait()
	return nil
}
