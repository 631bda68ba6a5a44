package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ignite/welcome-mailer/internal/config"
	"github.com/ignite/welcome-mailer/internal/repository/postgres"
	"github.com/ignite/welcome-mailer/migrations"
	"github.com/redis/go-redis/v9"
)

func main() {
	listOnly := flag.Bool("list", false, "print applied migrations and exit")
	wait := flag.Duration("wait", 2*time.Minute, "how long to wait for another instance holding the migration lock")
	flag.Parse()

	configPath := "config/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		configPath = v
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.Store.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	if *listOnly {
		names, err := postgres.AppliedMigrations(ctx, db)
		if err != nil {
			log.Fatal(err)
		}
		for _, n := range names {
			fmt.Println(" ", n)
		}
		fmt.Printf("Total: %d applied\n", len(names))
		return
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}

	applied, err := postgres.MigrateLocked(ctx, db, rdb, migrations.FS, *wait)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	for _, n := range applied {
		fmt.Printf("  %s ... OK\n", n)
	}
	log.Printf("Done: %d applied", len(applied))
}
