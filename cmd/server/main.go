// PlanWise is a chat-driven scheduling assistant. It listens on a
// Telegram webhook, extracts events from group chatter, guards the
// calendar against conflicts, and briefs every owner on tomorrow's
// schedule each night.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/planwise/planwise/internal/application/repository/convctx"
	convredis "github.com/planwise/planwise/internal/application/repository/convctx/redis"
	"github.com/planwise/planwise/internal/application/repository/postgres"
	"github.com/planwise/planwise/internal/application/service/agenda"
	"github.com/planwise/planwise/internal/application/service/briefing"
	"github.com/planwise/planwise/internal/application/service/research"
	"github.com/planwise/planwise/internal/application/service/router"
	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/internal/extractor/openai"
	"github.com/planwise/planwise/internal/logger"
	"github.com/planwise/planwise/internal/notifier/telegram"
	"github.com/planwise/planwise/internal/search/tavily"
	"github.com/planwise/planwise/internal/server"
	"github.com/planwise/planwise/internal/types/interfaces"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "planwise: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	location := cfg.Location()

	repo, err := postgres.NewRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer repo.Close()
	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	var contexts interfaces.ContextStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		contexts = convredis.NewContextStore(client, 0)
		logger.Info(ctx, "conversation context store: redis at %s", cfg.RedisAddr)
	} else {
		contexts = convctx.NewMemoryStore()
		logger.Info(ctx, "conversation context store: in-process")
	}

	extractor := openai.NewExtractor(
		cfg.OpenAIAPIKey,
		cfg.OpenAIBaseURL,
		cfg.OpenAIModel,
		cfg.DefaultEventDuration,
		location,
	)

	notifier := telegram.NewNotifier(cfg.TelegramToken, "", location)

	var researchSvc *research.Service
	if cfg.TavilyAPIKey != "" {
		searcher := tavily.NewClient(cfg.TavilyAPIKey, "")
		researchSvc = research.NewService(repo, extractor, searcher, cfg.DefaultEventDuration)
	} else {
		logger.Info(ctx, "TAVILY_API_KEY not set, research mode and enrichment disabled")
	}

	// researchSvc doubles as the enricher; a nil interface keeps the
	// router's enrichment step disabled.
	var enricher interfaces.Enricher
	if researchSvc != nil {
		enricher = researchSvc
	}

	pipeline := router.New(repo, contexts, extractor, notifier, enricher, router.Config{
		DefaultDuration: cfg.DefaultEventDuration,
		ExtractTimeout:  cfg.ExtractTimeout,
		StoreTimeout:    cfg.StoreTimeout,
	})

	agendaSvc := agenda.NewService(repo, location)
	briefingSvc := briefing.NewService(repo, notifier, location)

	scheduler := cron.New(cron.WithLocation(location))
	spec := fmt.Sprintf("0 %d * * *", cfg.BriefingHour)
	if _, err := scheduler.AddFunc(spec, func() {
		briefingSvc.Run(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly briefing: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	logger.Info(ctx, "nightly briefing scheduled at %02d:00 %s", cfg.BriefingHour, cfg.Timezone)

	srv := server.New(pipeline, agendaSvc, briefingSvc, researchSvc, contexts, notifier, repo)

	logger.Info(ctx, "listening on %s", cfg.ListenAddr)
	return srv.Run(cfg.ListenAddr)
}
