package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/psyche-works/psyche/internal/api/handlers"
	mw "github.com/psyche-works/psyche/internal/api/middleware"
	"github.com/psyche-works/psyche/internal/belief"
	"github.com/psyche-works/psyche/internal/buildconfig"
	"github.com/psyche-works/psyche/internal/config"
	"github.com/psyche-works/psyche/internal/domain"
	"github.com/psyche-works/psyche/internal/embedding"
	"github.com/psyche-works/psyche/internal/llm"
	"github.com/psyche-works/psyche/internal/service"
	"github.com/psyche-works/psyche/internal/store"
)

const persistTimeout = 5 * time.Second

// App holds the router and the in-memory engine for lifecycle management.
type App struct {
	Router  *chi.Mux
	Engine  *belief.Store
	Tracker *belief.Tracker

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp hydrates the belief engine from postgres, seeds it on first run,
// wires the engine's change notifications back into the durable stores, and
// assembles the router.
func NewApp(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) (*App, error) {
	// Stores
	beliefStore := store.NewBeliefStore(db)
	tensionStore := store.NewTensionStore(db)
	memoryStore := store.NewMemoryStore(db)
	debateStore := store.NewDebateStore(db)

	// Hydrate the engine; the in-memory state is the authority at runtime.
	nodes, err := beliefStore.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load beliefs: %w", err)
	}
	engine := belief.NewStoreFrom(nodes)

	records, err := tensionStore.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tensions: %w", err)
	}
	tracker := belief.NewTrackerFrom(records)

	// Flush every successful mutation back to postgres.
	engine.OnChange(func(n domain.BeliefNode) {
		saveCtx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := beliefStore.Save(saveCtx, n); err != nil {
			logger.Error("persist belief failed",
				zap.String("id", n.ID.String()),
				zap.String("stance", n.Stance),
				zap.Error(err))
		}
	})

	if engine.Len() == 0 {
		if err := belief.Seed(engine); err != nil {
			return nil, fmt.Errorf("seed beliefs: %w", err)
		}
		logger.Info("seeded core beliefs", zap.Int("count", engine.Len()))
	} else {
		logger.Info("hydrated belief engine",
			zap.Int("beliefs", engine.Len()),
			zap.Int("tensions", tracker.Len()))
	}

	// External clients via provider factory
	llmClient, err := llm.NewClient(config.LLMProvider(), config.LLMAPIKey())
	if err != nil {
		return nil, fmt.Errorf("init llm client: %w", err)
	}
	logger.Info("LLM client initialized", zap.String("provider", config.LLMProvider()))

	embeddingClient, err := embedding.NewClient(config.EmbeddingProvider(), config.EmbeddingAPIKey(), config.EmbeddingModel())
	if err != nil {
		return nil, fmt.Errorf("init embedding client: %w", err)
	}
	logger.Info("embedding client initialized",
		zap.String("provider", config.EmbeddingProvider()),
		zap.String("model", config.EmbeddingModel()))

	// Services
	memorySvc := service.NewMemoryService(memoryStore, embeddingClient, logger)
	deliberationSvc := service.NewDeliberationService(engine, tracker, tensionStore, debateStore, memorySvc, llmClient, logger)
	reviewSvc := service.NewReviewService(engine, tracker, debateStore, memorySvc, logger)

	// Handlers
	chatHandler := handlers.NewChatHandler(deliberationSvc)
	beliefHandler := handlers.NewBeliefHandler(engine)
	tensionHandler := handlers.NewTensionHandler(tracker, tensionStore, logger)
	memoryHandler := handlers.NewMemoryHandler(memorySvc)
	debateHandler := handlers.NewDebateHandler(debateStore)
	reviewHandler := handlers.NewReviewHandler(reviewSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Engine:    engine,
		Tracker:   tracker,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/chat", chatHandler.Post)

		r.Route("/beliefs", func(r chi.Router) {
			r.Get("/", beliefHandler.List)
			r.Get("/report", beliefHandler.Report)
			r.Post("/", beliefHandler.AddLearned)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", beliefHandler.GetByID)
				r.Post("/challenge", beliefHandler.Challenge)
				r.Post("/strengthen", beliefHandler.Strengthen)
				r.Post("/weaken", beliefHandler.Weaken)
				r.Post("/revise", beliefHandler.Revise)
				r.Put("/weight", beliefHandler.SetWeight)
				r.Post("/connect", beliefHandler.Connect)
				r.Post("/disconnect", beliefHandler.Disconnect)
			})
		})

		r.Route("/tensions", func(r chi.Router) {
			r.Get("/", tensionHandler.List)
			r.Post("/", tensionHandler.Create)
			r.Get("/stats", tensionHandler.Stats)
			r.Post("/{id}/resolve", tensionHandler.Resolve)
		})

		r.Route("/memories", func(r chi.Router) {
			r.Get("/recall", memoryHandler.Recall)
			r.Get("/", memoryHandler.List)
			r.Post("/", memoryHandler.Create)
			r.Get("/{id}", memoryHandler.GetByID)
		})

		r.Route("/debates", func(r chi.Router) {
			r.Get("/", debateHandler.List)
			r.Get("/{id}", debateHandler.GetByID)
		})

		r.Get("/review", reviewHandler.Get)
	})

	return app, nil
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": buildconfig.Version(),
			"commit":  buildconfig.Commit(),
		})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"beliefs":        app.Engine.Len(),
			"tensions":       app.Tracker.Len(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.BeliefRepository  = (*store.BeliefStore)(nil)
	_ domain.TensionRepository = (*store.TensionStore)(nil)
	_ domain.MemoryRepository  = (*store.MemoryStore)(nil)
	_ domain.DebateRepository  = (*store.DebateStore)(nil)
	_ domain.EmbeddingClient   = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient   = (*embedding.MockClient)(nil)
	_ domain.LLMClient         = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient         = (*llm.AnthropicClient)(nil)
	_ domain.LLMClient         = (*llm.MockClient)(nil)
)
