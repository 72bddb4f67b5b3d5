package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"github.com/mahmoudsallem/Backend/internal/cache"
	"github.com/mahmoudsallem/Backend/internal/config"
	"github.com/mahmoudsallem/Backend/internal/csrf"
	"github.com/mahmoudsallem/Backend/internal/dto"
	"github.com/mahmoudsallem/Backend/internal/handlers"
	"github.com/mahmoudsallem/Backend/internal/repo"
	"github.com/mahmoudsallem/Backend/internal/service"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, log *slog.Logger, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(db))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	r.NoRoute(noRouteHandler)
	r.HandleMethodNotAllowed = true
	r.NoMethod(noMethodHandler)

	api := r.Group("/api")

	sessions := csrf.NewRedisSessionStore(rdb, cfg.Security.SessionTTL.Duration())
	tokens := csrf.NewTokenManager(cfg.Security.SecretKey, cfg.Security.CSRFTokenTTL.Duration())
	protection := csrf.NewProtection(sessions, tokens, cfg.Security.CSRFEnabled, cfg.Security.SessionTTL.Duration())
	api.GET("/csrf-token", protection.TokenHandler)

	protected := api.Group("", protection.Middleware())
	taskRepo := repo.NewPGTaskRepo(db)
	taskCache := cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	taskSvc := service.NewTaskService(taskRepo, taskCache)
	taskHandler := handlers.NewTaskHandler(taskSvc, log)
	registerTaskRoutes(protected, taskHandler)
}

// noRouteHandler keeps unknown paths on the JSON contract instead of
// gin's plain-text default.
func noRouteHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.ErrorResponse{
		Error:   dto.ErrCodeNotFound,
		Message: "resource not found",
	})
}

func noMethodHandler(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, dto.ErrorResponse{
		Error:   dto.ErrCodeMethodNotAllowed,
		Message: "method not allowed",
	})
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Task Manager API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

// healthHandler answers only after a real database round trip, so a probe
// catches a wedged pool and not just a live process.
func healthHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		var one int
		if err := db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "unhealthy",
				"error":   dto.ErrCodeInternal,
				"message": "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:    "ok",
			Database:  "connected",
			Timestamp: time.Now().UTC(),
		})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, dto.ErrorResponse{Error: dto.ErrCodeInternal, Message: "swagger doc unavailable"})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/tasks", h.List)
	api.POST("/tasks", h.Create)
	api.GET("/tasks/:id", h.GetByID)
	api.PUT("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
}
