package routes

import (
	"net/http"

	"github.com/nochase/nochase/internal/app"
	"github.com/nochase/nochase/internal/handler"
	"github.com/nochase/nochase/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB, app.Redis)
	goal := handler.NewGoalHandler(app.GoalService)
	breathing := handler.NewBreathingHandler()
	resource := handler.NewResourceHandler(app.ResourceService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)

	// Breathing exercise
	mux.HandleFunc("GET /api/breathing", breathing.Cycle)
	mux.HandleFunc("GET /api/breathing/messages", breathing.Messages)

	// Reading list
	mux.HandleFunc("GET /api/resources", resource.List)
	mux.HandleFunc("GET /api/resources/{slug}", resource.Show)

	// ============================================================================
	// PROTECTED ROUTES (/api/goals*)
	// ============================================================================

	// Writes are rate limited per client IP
	var rateLimiter middleware.Limiter = middleware.NewRateLimiter(app.Cfg.RateLimitPerMinute, app.Cfg.RateLimitBurst)
	if app.Redis != nil {
		rateLimiter = middleware.NewRedisRateLimiter(app.Redis, app.Cfg.RateLimitPerMinute, app.Cfg.RateLimitBurst)
	}

	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("GET /api/goals/summary", middleware.RequireAuth(goal.Summary))
	mux.HandleFunc("GET /api/goals/export", middleware.RequireAuth(goal.Export))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Detail))
	mux.HandleFunc("POST /api/goals", rateLimiter.Limit(middleware.RequireAuth(goal.Create)))
	mux.HandleFunc("PATCH /api/goals/{id}", rateLimiter.Limit(middleware.RequireAuth(goal.Update)))
	mux.HandleFunc("POST /api/goals/{id}/complete", rateLimiter.Limit(middleware.RequireAuth(goal.Complete)))
	mux.HandleFunc("DELETE /api/goals/{id}", rateLimiter.Limit(middleware.RequireAuth(goal.Delete)))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", handler.NotFound)

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (read by the health check)
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CORS(app.Cfg.CORSOrigins), // before APIKey so preflights pass
		middleware.APIKey(app.Cfg.APIKey),
		middleware.AuthMiddleware(app.AuthService),
	)
}
