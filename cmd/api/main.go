package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tutorgate/tutorgate/internal/app"
	"github.com/tutorgate/tutorgate/internal/auth"
	"github.com/tutorgate/tutorgate/internal/cache"
	"github.com/tutorgate/tutorgate/internal/config"
	"github.com/tutorgate/tutorgate/internal/prompt"
	"github.com/tutorgate/tutorgate/internal/provider/groq"
	"github.com/tutorgate/tutorgate/internal/ratelimit"
	"github.com/tutorgate/tutorgate/internal/storage"
	"github.com/tutorgate/tutorgate/internal/tokenizer"
	"github.com/tutorgate/tutorgate/internal/transport/http/handler"
	"github.com/tutorgate/tutorgate/internal/transport/http/handler/admin"
	"github.com/tutorgate/tutorgate/internal/transport/http/handler/infra"
	"github.com/tutorgate/tutorgate/internal/transport/http/handler/study"
	"github.com/tutorgate/tutorgate/internal/version"
)

func main() {
	hashSecret := flag.String("hash-secret", "", "print the argon2id hash of the given shared secret for AUTH_TOKEN_HASH, then exit")
	flag.Parse()

	logger := setupLogger()

	if *hashSecret != "" {
		encoded, err := auth.HashSecret(*hashSecret, nil)
		if err != nil {
			logger.Error("failed to hash secret", "error", err)
			os.Exit(1)
		}
		fmt.Println(encoded)
		return
	}

	if err := config.EnsureDataDir(); err != nil {
		logger.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	if err := config.EnsureConfigFile(); err != nil {
		logger.Error("failed to create default config file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	verifier, err := auth.NewVerifier(cfg.AuthToken, cfg.AuthTokenHash)
	if err != nil {
		logger.Error("invalid shared secret configuration", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStorage(config.DBPath())
	if err != nil {
		logger.Error("failed to open storage", "error", err, "path", config.DBPath())
		os.Exit(1)
	}
	defer store.Close()

	respCache, err := cache.New()
	if err != nil {
		logger.Error("failed to create response cache", "error", err)
		os.Exit(1)
	}

	prov := groq.New(cfg.GroqBaseURL, cfg.GroqAPIKey)
	policies := prompt.FromConfig(cfg.Endpoints)
	tok := tokenizer.New()

	repo := handler.NewRepo(
		study.New(prov, policies, store, tok, respCache, logger, cfg.WhisperModel),
		infra.New(version.Version),
		admin.New(store),
	)

	router := app.NewRouter(repo, &app.RouterOptions{
		Logger:   logger,
		Verifier: verifier,
		Limiter:  ratelimit.New(cfg.RateLimit),
	})

	printStartupBanner(cfg)

	srv := app.NewServer(cfg, router, logger)
	if err := srv.Start(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
