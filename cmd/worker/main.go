package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"framecraft-backend/internal/config"
	"framecraft-backend/internal/emailer"
	"framecraft-backend/internal/objectstore"
	"framecraft-backend/internal/store"
	"framecraft-backend/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.RedisAddr == "" {
		log.Fatal("REDIS_ADDR must be set for the worker")
	}

	var sessions store.SessionStore
	if cfg.DatabaseURL != "" && cfg.S3Endpoint != "" {
		objects, err := objectstore.New(cfg)
		if err != nil {
			log.Fatalf("init object storage: %v", err)
		}
		if err := objects.EnsureBucket(ctx); err != nil {
			log.Fatalf("ensure storage bucket: %v", err)
		}
		pgStore, err := store.NewPostgresStore(cfg.DatabaseURL, objects, cfg.SessionQuotaBytes)
		if err != nil {
			log.Fatalf("init session store: %v", err)
		}
		defer pgStore.Close()
		sessions = pgStore
	} else {
		// A memory store here can only see orders created by this
		// process, which is never the case for the worker.
		log.Fatal("DATABASE_URL and S3_ENDPOINT must be set for the worker")
	}

	mailer := emailer.NewClient(cfg.EmailJSBaseURL, cfg.EmailJSServiceID, cfg.EmailJSTemplateID, cfg.EmailJSPublicKey)

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, asynq.Config{
		Concurrency: 4,
	})
	processor := worker.NewProcessor(mailer, sessions)
	mux := processor.Handler()

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	if err := server.Run(mux); err != nil {
		log.Printf("worker stopped: %v", err)
		os.Exit(1)
	}
}
