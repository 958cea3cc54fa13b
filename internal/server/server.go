package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"shopfront/internal/config"
	"shopfront/internal/gate"
	custommiddleware "shopfront/internal/middleware"
	"shopfront/internal/ratelimit"
	"shopfront/internal/repository"
	"shopfront/internal/service"
	"shopfront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	logger *zap.Logger
	redis  *redis.Client
}

// NewServer wires the full HTTP surface. redisClient may be nil; the rate
// limiter then runs purely on its in-process counter.
func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	// Basic middleware stack
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger, cfg.IsDevelopment()))
	router.Use(custommiddleware.CORSMiddleware(cfg.Security.AllowedOrigin, cfg.IsDevelopment()))

	// Claims are resolved before the gate so throttle keys can use the
	// user ID; routes that require auth still enforce it themselves
	router.Use(custommiddleware.OptionalAuth(cfg.JWT.Secret))

	// Request gate: origin validation plus rate limiting for every
	// mutating request, before any business logic runs
	var primary ratelimit.Store
	if redisClient != nil {
		primary = ratelimit.NewRedisStore(redisClient, "rate_limit")
	}
	limiter := ratelimit.NewLimiter(primary, ratelimit.NewMemoryStore(), cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
	requestGate := gate.New(gate.Config{
		Development:   cfg.IsDevelopment(),
		AllowedOrigin: cfg.Security.AllowedOrigin,
	}, limiter, logger)
	router.Use(requestGate.Middleware)

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	userService := service.NewUserService(
		userRepo,
		refreshTokenRepo,
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshExpiry)*24*time.Hour,
	)
	productService := service.NewProductService(productRepo, categoryRepo)
	orderService := service.NewOrderService(orderRepo, productRepo)

	// Initialize handlers
	userHandler := transport.NewUserHandler(userService, logger)
	productHandler := transport.NewProductHandler(productService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	// Register routes
	userHandler.RegisterRoutes(router, authMiddleware)
	productHandler.RegisterRoutes(router, authMiddleware)
	orderHandler.RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		logger: logger,
		redis:  redisClient,
	}

	return server
}

// Close releases the server's own resources. The database pool belongs to
// the caller that opened it.
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
