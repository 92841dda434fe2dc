package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/learnpath/platform/internal/auth"
	"github.com/learnpath/platform/internal/handler"
	adminhandler "github.com/learnpath/platform/internal/handler/admin"
	"github.com/learnpath/platform/internal/progression"
	"github.com/learnpath/platform/internal/repository"
	"github.com/learnpath/platform/internal/service"
	"github.com/redis/go-redis/v9"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool   *pgxpool.Pool
	Redis  *redis.Client // nil disables the track cache
	JWTMgr *auth.JWTManager
	Logger *slog.Logger
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

	// Repositories
	userRepo := repository.NewUserRepository()
	trackRepo := repository.NewCachedTrackRepository(repository.NewTrackRepository(), deps.Redis, logger)
	progressRepo := repository.NewProgressRepository()
	badgeRepo := repository.NewBadgeRepository()
	attemptRepo := repository.NewAttemptRepository()
	outboxRepo := repository.NewOutboxRepository()

	// Progression engine
	engine := progression.NewEngine(pool, userRepo, trackRepo, progressRepo, badgeRepo, attemptRepo, outboxRepo, logger)

	// Services
	authSvc := service.NewAuthService(pool, userRepo, outboxRepo, jwtMgr)
	quizSvc := service.NewQuizService(pool, userRepo, attemptRepo, badgeRepo, outboxRepo, logger)
	contentSvc := service.NewContentService(pool, trackRepo, badgeRepo, userRepo, outboxRepo, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(userRepo, pool)
	roadmapHandler := handler.NewRoadmapHandler(trackRepo, engine, pool)
	progressionHandler := handler.NewProgressionHandler(engine)
	badgeHandler := handler.NewBadgeHandler(badgeRepo, userRepo, pool)
	quizHandler := handler.NewQuizHandler(quizSvc)

	// Admin handlers
	trackAdmin := adminhandler.NewTrackAdminHandler(contentSvc, trackRepo, pool)
	badgeAdmin := adminhandler.NewBadgeAdminHandler(contentSvc)

	// Router
	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS)
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Auth routes (no auth)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Learner-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticateLearner(jwtMgr))

		r.Get("/users/me", profileHandler.GetMe)
		r.Get("/users/me/badges", badgeHandler.MyBadges)

		r.Get("/badges", badgeHandler.List)

		r.Route("/tracks", func(r chi.Router) {
			r.Get("/", roadmapHandler.List)
			r.Get("/{trackID}/state", roadmapHandler.GetState)
			r.Post("/{trackID}/modules/{moduleID}/complete", progressionHandler.CompleteModule)
			r.Post("/{trackID}/modules/{moduleID}/sub-modules/{subModuleID}/complete", progressionHandler.CompleteSubModule)
		})

		r.Post("/quizzes/{quizID}/attempts", quizHandler.SubmitAttempt)
	})

	// Admin-authenticated routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthenticateAdmin(jwtMgr))

		r.Route("/tracks", func(r chi.Router) {
			r.Get("/", trackAdmin.ListTracks)
			r.Get("/{trackID}", trackAdmin.GetTrack)
			r.With(auth.RequireRole(auth.WriteRoles()...)).Put("/{trackID}", trackAdmin.PutTrack)
		})

		r.Route("/badges", func(r chi.Router) {
			r.With(auth.RequireRole(auth.WriteRoles()...)).Put("/{badgeID}", badgeAdmin.PutBadge)
		})

		r.With(auth.RequireRole(auth.WriteRoles()...)).
			Post("/users/{userID}/badges/{badgeID}", badgeAdmin.GrantBadge)
	})

	return r
}
