package bootstrap

import (
	"context"
	"log"

	"studyspace-be/internal/config"
	"studyspace-be/internal/controller"
	"studyspace-be/internal/handler"
	"studyspace-be/internal/pkg/logger"
	"studyspace-be/internal/repository/contract"
	"studyspace-be/internal/repository/implementation"
	"studyspace-be/internal/repository/memory"
	"studyspace-be/internal/repository/unitofwork"
	"studyspace-be/internal/service"
	"studyspace-be/internal/websocket"
	"studyspace-be/pkg/events"
	"studyspace-be/pkg/llm/factory"
	"studyspace-be/pkg/studygen"

	pktNats "studyspace-be/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PlanController        controller.PlanController
	WorkspaceController   controller.IWorkspaceController
	LeaderboardController controller.ILeaderboardController

	// Background Services (Exposed for main.go to run)
	ActivityService    *service.ActivityService
	LeaderboardService *service.LeaderboardService

	// WebSockets
	RealtimeHandler *handler.RealtimeHandler
	WebSocketHub    *websocket.Hub

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c := &Container{}

	// 2. Event Bus
	bus := events.NewWatermillBus(sysLogger)
	c.closers = append(c.closers, func() { _ = bus.Close() })

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)
	generator := studygen.NewGenerator(llmProvider, sysLogger)

	// 4. Infrastructure
	// NATS
	var (
		activityPub  service.ActivityPublisher
		activityFeed service.ActivityFeed
		auditLog     events.Publisher
	)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, cfg.Leaderboard.ActivitySubject, sysLogger)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, cfg.Leaderboard.ActivitySubject, sysLogger)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}
	if natsPub != nil && natsSub != nil {
		activityPub, activityFeed, auditLog = natsPub, natsSub, natsPub
		c.closers = append(c.closers, natsPub.Close, natsSub.Close)
	} else {
		log.Printf("[WARN] Activity feed is process-local; leaderboards will not span instances")
		local := pktNats.NewLocalFeed()
		activityPub, activityFeed = local, local
		if natsPub != nil {
			natsPub.Close()
		}
		if natsSub != nil {
			natsSub.Close()
		}
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		_ = rdb.Close()
		rdb = nil
	} else {
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// Workspace persistence
	var store contract.KVStore
	if cfg.Workspace.KVBackend == "redis" && rdb != nil {
		store = implementation.NewRedisKVStore(rdb, cfg.Workspace.SessionTTL)
		log.Printf("[INFO] Workspace storage: REDIS")
	} else {
		store = implementation.NewGormKVStore(db)
		log.Printf("[INFO] Workspace storage: POSTGRES")
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.RealtimeLogPath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 5. Services
	planService := service.NewPlanService(uowFactory, nil)

	workspaceService := service.NewWorkspaceService(
		memory.NewWorkspaceRepository(cfg.Workspace.SessionTTL),
		store,
		implementation.NewProfileRepository(db),
		generator, // Generator
		generator, // CandidateExtractor
		bus,
		wsHub, // Hub implements RealtimeNotifier
		sysLogger,
		service.WorkspaceServiceOptions{
			HistoryCap:   cfg.Workspace.HistoryCap,
			ExtractDelay: cfg.Workspace.ExtractDebounce,
		},
	)

	c.ActivityService = service.NewActivityService(uowFactory, bus, activityPub, auditLog, sysLogger, service.ActivityServiceOptions{
		Window:          cfg.Leaderboard.ActiveWindow,
		MaxRecords:      cfg.Leaderboard.MaxRecords,
		RefreshInterval: cfg.Leaderboard.RefreshInterval,
	})
	c.LeaderboardService = service.NewLeaderboardService(activityFeed, wsHub, bus, wsLogger)

	wsHub.SetPresenceListener(c.LeaderboardService)
	wsHub.SetInboundHandler(c.LeaderboardService.HandleInbound)

	// 6. Controllers
	// Note: We return the container with public fields for the server to register
	c.PlanController = controller.NewPlanController(planService)
	c.WorkspaceController = controller.NewWorkspaceController(workspaceService)
	c.LeaderboardController = controller.NewLeaderboardController(c.LeaderboardService)
	c.RealtimeHandler = handler.NewRealtimeHandler(wsHub, cfg.App.JWTSecret, wsLogger)
	c.WebSocketHub = wsHub

	return c
}

// Close releases broker and cache connections.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}
