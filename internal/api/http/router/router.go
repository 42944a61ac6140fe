package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/tooodo-server/internal/api/http/handler"
	"github.com/dtroode/tooodo-server/internal/api/http/middleware"
	"github.com/dtroode/tooodo-server/internal/logger"
	"github.com/dtroode/tooodo-server/internal/model"
)

// Router wires HTTP handlers and middleware.
type Router struct {
	authService    handler.AuthService
	userService    handler.UserService
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	limiter        middleware.Limiter
	refreshTTL     time.Duration
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	authService handler.AuthService,
	userService handler.UserService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	limiter middleware.Limiter,
	refreshTTL time.Duration,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		userService:    userService,
		tokenService:   tokenService,
		contextManager: contextManager,
		limiter:        limiter,
		refreshTTL:     refreshTTL,
		logger:         logger,
	}
}

// Register builds the route tree. Auth routes are rate limited; user routes
// sit behind the bearer authentication middleware.
func (r *Router) Register() http.Handler {
	authHandler := handler.NewAuth(r.authService, r.refreshTTL, r.logger)
	userHandler := handler.NewUser(r.userService, r.contextManager, r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)
	rateLimit := middleware.NewRateLimit(r.limiter, 30, time.Minute, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(chimiddleware.Logger)
	mux.Use(chimiddleware.Recoverer)

	mux.Route("/auth", func(mux chi.Router) {
		mux.Use(rateLimit.Handle)
		mux.Post("/sign-up", authHandler.SignUp)
		mux.Post("/sign-in", authHandler.SignIn)
		mux.Post("/refresh", authHandler.Refresh)
		mux.Get("/verify", authHandler.Verify)
	})

	mux.Route("/users", func(mux chi.Router) {
		mux.Use(authenticate.Handle)
		mux.Get("/", userHandler.Get)
		mux.Put("/", userHandler.Update)
		mux.Delete("/", userHandler.Delete)
	})

	return mux
}
