// Command octoscope browses GitHub from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/custodia-labs/octoscope/internal/adapters/driven/config/file"
	"github.com/custodia-labs/octoscope/internal/adapters/driven/github"
	"github.com/custodia-labs/octoscope/internal/adapters/driven/oauth"
	"github.com/custodia-labs/octoscope/internal/adapters/driven/pipeline"
	"github.com/custodia-labs/octoscope/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/octoscope/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/octoscope/internal/adapters/driving/cli"
	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
	"github.com/custodia-labs/octoscope/internal/core/ports/driving"
	"github.com/custodia-labs/octoscope/internal/core/services"
	"github.com/custodia-labs/octoscope/internal/logger"
	"github.com/custodia-labs/octoscope/internal/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logger.Logger()

	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:    "octoscope",
		ServiceVersion: version,
	})
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	dir, err := file.DefaultDir()
	if err != nil {
		return err
	}

	var configStore driven.ConfigStore
	if fileStore, err := file.NewConfigStore(dir); err != nil {
		log.Warn("config file unavailable, using defaults", "error", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = fileStore
	}
	settingsService := services.NewSettingsService(configStore)
	settings := settingsService.Get()

	var tokens *services.TokenStore
	if tokenFile, err := file.NewTokenFile(dir, log); err != nil {
		log.Warn("session file unavailable, login lasts until exit", "error", err)
		tokens = services.NewTokenStore(memory.NewTokenStorage(), log)
	} else {
		tokens = services.NewTokenStore(tokenFile, log)
		followCtx, cancelFollow := context.WithCancel(ctx)
		defer cancelFollow()
		go func() {
			if err := tokens.Follow(followCtx, tokenFile); err != nil {
				log.Debug("not watching session file", "error", err)
			}
		}()
	}
	if err := tokens.Load(ctx); err != nil {
		log.Warn("could not read stored session", "error", err)
	}

	var (
		etags     driven.ETagStore
		responses driven.ResponseStore
		cache     cli.CachePurger
	)
	if store, err := sqlite.NewStore(filepath.Join(dir, "data")); err != nil {
		log.Warn("response cache unavailable, caching in memory", "error", err)
		etags, responses = memory.NewETagStore(), memory.NewResponseStore()
	} else {
		defer store.Close()
		etags, responses, cache = store.ETagStore(), store.ResponseStore(), store
	}

	p := pipeline.New(
		pipeline.WithTokenSource(tokens),
		pipeline.WithETagStore(etags),
		pipeline.WithResponseStore(responses),
		pipeline.WithRateLimiter(pipeline.NewRateLimiter(settings.RequestsPerSecond)),
		pipeline.WithMaxAge(settings.CacheMaxAge),
		pipeline.WithLogger(log),
	)

	api, err := github.NewClient(p.Client(), settings.APIBaseURL)
	if err != nil {
		return fmt.Errorf("creating GitHub client: %w", err)
	}

	var exchanger driven.OAuthExchanger
	if settings.ClientID != "" {
		exchanger = oauth.NewExchanger(settings.ClientID, settings.ClientSecret)
	}

	cli.SetServices(cli.Services{
		Repos:    services.NewRepoService(api, tokens),
		Issues:   services.NewIssueService(api, tokens),
		Session:  services.NewSessionService(tokens, exchanger, api, log),
		Settings: settingsService,
		NewDetail: func() driving.RepoDetail {
			return services.NewRepoDetail(api, tokens, log)
		},
		SessionFeed: tokens,
		Cache:       cache,
	})
	cli.SetVersion(version)

	return cli.Execute(ctx)
}
