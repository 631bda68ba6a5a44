package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/welcome-mailer/internal/api"
	"github.com/ignite/welcome-mailer/internal/config"
	"github.com/ignite/welcome-mailer/internal/mail"
	"github.com/ignite/welcome-mailer/internal/metrics"
	"github.com/ignite/welcome-mailer/internal/pkg/logger"
	"github.com/ignite/welcome-mailer/internal/repository/postgres"
	"github.com/ignite/welcome-mailer/internal/repository/supabase"
	"github.com/ignite/welcome-mailer/internal/service/subscription"
	"github.com/ignite/welcome-mailer/migrations"
	"github.com/redis/go-redis/v9"
)

// store is what the server needs from either backend.
type store interface {
	subscription.Repository
	api.Pinger
}

func main() {
	configPath := "config/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable at startup", "error", err)
		}
	}

	repo, closeStore, err := openStore(ctx, cfg, rdb)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	sender, err := newSender(ctx, cfg.Mail)
	if err != nil {
		log.Fatalf("Failed to create mail sender: %v", err)
	}
	tpl, err := mail.LoadTemplate(cfg.Mail.TemplatePath)
	if err != nil {
		log.Fatalf("Failed to load welcome template: %v", err)
	}
	welcomer := mail.NewWelcomer(sender, tpl, cfg.Mail)

	svc := subscription.NewService(repo, welcomer, subscription.WithObserver(func(r subscription.Result) {
		metrics.ObserveSubscription(string(r.State), r.Duplicate)
	}))

	server := api.NewServer(cfg.Server, api.Deps{
		Subscriber: svc,
		Store:      repo,
		Redis:      rdb,
	})

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := cfg.Server.Addr()
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	host := cfg.Server.GetHost()
	if host == "" {
		host = "localhost"
	}
	base := fmt.Sprintf("http://%s:%d", host, cfg.Server.Port)
	logger.Info("server running", "url", base, "store", cfg.Store.Driver, "mail_provider", sender.Provider())
	logger.Info("test it: open "+base+" in a browser")
	logger.Info("ready for POST /api/subscribe")

	<-done
	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}

func openStore(ctx context.Context, cfg *config.Config, rdb *redis.Client) (store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverSupabase:
		logger.Info("using supabase store", "url", cfg.Store.SupabaseURL, "table", cfg.Store.Table)
		return supabase.NewClient(cfg.Store), func() {}, nil

	case config.DriverPostgres:
		openCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout())
		defer cancel()
		db, err := postgres.Open(openCtx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Store.AutoMigrate {
			applied, err := postgres.MigrateLocked(ctx, db, rdb, migrations.FS, time.Minute)
			if err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("auto-migrate: %w", err)
			}
			logger.Info("migrations applied", "count", len(applied), "files", applied)
		}
		logger.Info("using postgres store", "table", cfg.Store.Table)
		return postgres.NewSubscriptionRepo(db, cfg.Store.Table), func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func newSender(ctx context.Context, cfg config.MailConfig) (mail.Sender, error) {
	switch cfg.Provider {
	case config.ProviderSES:
		return mail.NewSESSender(ctx, cfg.SES)
	case config.ProviderSMTP:
		return mail.NewSMTPSender(cfg.SMTP), nil
	}
	return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
}
