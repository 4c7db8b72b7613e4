package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pathscheduler-bot/internal/config"
	"pathscheduler-bot/internal/scores"
	"pathscheduler-bot/internal/server"
	"pathscheduler-bot/internal/store"
	"pathscheduler-bot/internal/tgbot"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.New(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, scores kept in memory")
	}

	botApp, err := tgbot.New(cfg)
	if err != nil {
		log.Fatalf("telegram: %v", err)
	}

	httpSrv := server.New(cfg, scores.New(st), botApp)

	go func() {
		log.Printf("HTTP listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctxTimeout, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = httpSrv.Shutdown(ctxTimeout)

	log.Println("bye")
}
