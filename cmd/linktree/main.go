package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"linktree/internal/api/middleware"
	"linktree/internal/config"
	database "linktree/internal/db"
	"linktree/internal/linktree"
	"linktree/internal/storage"
)

func main() {
	// 1. Parse Flags
	// We add flags to override config.yaml values
	provider := flag.String("provider", "", "Override live provider (random, manual, twitch, youtube, kick or a comma list)")
	mintRole := flag.String("mint-token", "", "Print a signed admin API token for the given role (admin, streamer) and exit")
	tokenTTL := flag.Duration("token-ttl", 30*24*time.Hour, "Lifetime of a minted token (0 = never expires)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// 2. Load Config
	cfg := config.Load()

	if *mintRole != "" {
		token, err := middleware.MintToken([]byte(cfg.Auth.JWTSecret), cfg.Streamer.Name, *mintRole, *tokenTTL)
		if err != nil {
			log.Fatalf("❌ Cannot mint token: %v", err)
		}
		fmt.Println(token)
		return
	}

	// 3. Apply Flag Overrides
	if *provider != "" {
		cfg.Live.Provider = *provider
	}

	log.Printf("🚀 Starting Linktree for %s...", cfg.Streamer.Name)

	// 4. Init Infrastructure (both optional)
	store := storage.New(cfg)
	db := database.New(cfg)
	if db != nil {
		db.AutoMigrate()
	}

	linktree.RegisterMetrics(prometheus.DefaultRegisterer)

	// 5. Start Engine
	engine, err := linktree.New(cfg, store, db)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.Run(ctx); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
