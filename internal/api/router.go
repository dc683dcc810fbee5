package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/testflow/task-system/internal/api/handler"
	"github.com/testflow/task-system/internal/api/middleware"
	"github.com/testflow/task-system/internal/core/domain"
	"github.com/testflow/task-system/internal/core/service"
	"github.com/testflow/task-system/internal/infrastructure/config"
	mongodb "github.com/testflow/task-system/internal/infrastructure/db/mongo"
	redisdb "github.com/testflow/task-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("testflow"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	throttle := redisdb.NewLoginThrottle(rdb, 0, 0)

	authService := service.NewAuthService(userRepo, throttle, cfg.JWTSecret, cfg.TokenTTL(), log)
	userService := service.NewUserService(userRepo, taskRepo, log)
	taskService := service.NewTaskService(taskRepo, userRepo, log)
	statsService := service.NewStatsService(userRepo, taskRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService)
	statsHandler := handler.NewStatsHandler(statsService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	registerAPIRoutes(e, cfg.JWTSecret, authHandler, userHandler, taskHandler, statsHandler)

	return e
}

// registerAPIRoutes mounts the /api surface. /users/me sits on the
// authenticated group rather than the admin-only /users group, so any
// signed-in user can read their own profile; echo matches the static
// segment before /users/:id.
func registerAPIRoutes(
	e *echo.Echo,
	jwtSecret string,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	taskHandler *handler.TaskHandler,
	statsHandler *handler.StatsHandler,
) {
	// --- Public API ---
	apiGroup := e.Group("/api")
	apiGroup.POST("/auth/login", authHandler.Login)

	// --- Authenticated API ---
	authed := apiGroup.Group("", middleware.Auth(jwtSecret))

	authed.GET("/users/me", userHandler.Profile)

	users := authed.Group("/users", middleware.RBAC(domain.RoleAdmin))
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	tasks := authed.Group("/tasks")
	tasks.POST("", taskHandler.Create)
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	stats := authed.Group("/statistics", middleware.RBAC(domain.RoleAdmin, domain.RoleManager))
	stats.GET("/employees", statsHandler.Employees)
}
