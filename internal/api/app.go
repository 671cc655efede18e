package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/ai"
	"github.com/danilofortes/stackhabit/internal/auth"
	"github.com/danilofortes/stackhabit/internal/config"
	"github.com/danilofortes/stackhabit/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Store() storage.Store
	Auth() *auth.JWTProvider
	Assistant() *ai.Assistant
	// Now backs the current-month default on the dashboard; injectable
	// for deterministic tests.
	Now() time.Time
}

type app struct {
	logger    internal.Logger
	store     storage.Store
	provider  *auth.JWTProvider
	assistant *ai.Assistant
	now       func() time.Time
}

func NewApp(logger internal.Logger, store storage.Store, provider *auth.JWTProvider, assistant *ai.Assistant) App {
	return &app{
		logger:    logger,
		store:     store,
		provider:  provider,
		assistant: assistant,
		now:       time.Now,
	}
}

// NewAppWithClock is NewApp with a fixed clock, for tests.
func NewAppWithClock(logger internal.Logger, store storage.Store, provider *auth.JWTProvider, assistant *ai.Assistant, now func() time.Time) App {
	return &app{
		logger:    logger,
		store:     store,
		provider:  provider,
		assistant: assistant,
		now:       now,
	}
}

func (a *app) Logger() internal.Logger  { return a.logger }
func (a *app) Store() storage.Store     { return a.store }
func (a *app) Auth() *auth.JWTProvider  { return a.provider }
func (a *app) Assistant() *ai.Assistant { return a.assistant }
func (a *app) Now() time.Time           { return a.now() }

// Router wires the full HTTP surface.
func Router(app App, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(MetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORSOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           5 * time.Minute,
	}))

	r.GET("/health", Health())
	r.GET("/metrics", MetricsHandler())

	r.POST("/api/auth/register", Register(app))
	r.POST("/api/auth/login", Login(app))

	protected := r.Group("/api", auth.Middleware(app.Auth()))
	{
		protected.GET("/habits", ListHabits(app))
		protected.POST("/habits", CreateHabit(app))
		protected.PUT("/habits/:id", UpdateHabit(app))
		protected.DELETE("/habits/:id", DeleteHabit(app))
		protected.PATCH("/habits/:id/toggle", ToggleHabit(app))

		protected.GET("/dashboard", GetDashboard(app))

		protected.GET("/metas/:targetDate", ListMetas(app))
		protected.POST("/metas", CreateMeta(app))
		protected.PATCH("/metas/:id/toggle", ToggleMeta(app))
		protected.DELETE("/metas/:id", DeleteMeta(app))

		protected.GET("/reviews", ListReviews(app))
		protected.GET("/reviews/:targetDate", GetReview(app))
		protected.POST("/reviews", CreateReview(app))
		protected.PUT("/reviews/:targetDate", UpdateReview(app))
		protected.DELETE("/reviews/:targetDate", DeleteReview(app))

		protected.POST("/ai/review-guidance", ReviewGuidance(app))
		protected.POST("/ai/improve-review", ImproveReview(app))
	}

	return r
}
