package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"devicesim/internal/api/handler"
	"devicesim/internal/config"
	"devicesim/internal/pool"
	"devicesim/internal/service"
	"devicesim/internal/startup"

	"github.com/gin-gonic/gin"
)

// Server represents the HTTP control-and-telemetry surface.
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	services   *Services
}

// Services contains all service dependencies the API wires into handlers.
type Services struct {
	DevicePool *pool.LazyDevicePool
	Startup    *startup.Manager
	Profile    *service.ProfileService
	Setting    *service.SettingService
	Lifecycle  *service.LifecycleEventService
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Config, services *Services) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(loggerMiddleware())

	s := &Server{
		cfg:      cfg,
		router:   router,
		services: services,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	health := handler.NewHealthHandler()
	s.router.GET("/health", health.Health)
	s.router.GET("/ready", health.Ready)

	api := s.router.Group("/api")
	{
		poolHandler := handler.NewPoolHandler(s.services.DevicePool, s.services.Startup)
		api.GET("/pool/stats", poolHandler.Stats)
		api.GET("/pool/devices/:port", poolHandler.GetDevice)
		api.DELETE("/pool/devices/:port", poolHandler.ShutdownDevice)

		population := api.Group("/population")
		{
			population.POST("/start", poolHandler.StartPopulation)
			population.POST("/start/:name", poolHandler.StartMix)
			population.POST("/stop", poolHandler.StopPopulation)
			population.GET("/status", poolHandler.Status)
		}

		profileHandler := handler.NewProfileHandler(s.services.Profile)
		profiles := api.Group("/profiles")
		{
			profiles.GET("", profileHandler.List)
			profiles.GET("/:deviceType", profileHandler.Get)
			profiles.PUT("/:deviceType", profileHandler.Upsert)
			profiles.DELETE("/:deviceType", profileHandler.Delete)
		}

		lifecycleHandler := handler.NewLifecycleHandler(s.services.Lifecycle)
		lifecycle := api.Group("/lifecycle")
		{
			lifecycle.GET("", lifecycleHandler.List)
			lifecycle.DELETE("/cleanup", lifecycleHandler.Cleanup)
		}

		settingHandler := handler.NewSettingHandler(s.services.Setting)
		settings := api.Group("/settings")
		{
			settings.GET("", settingHandler.List)
			settings.GET("/:key", settingHandler.Get)
			settings.PUT("/:key", settingHandler.Set)
			settings.DELETE("/:key", settingHandler.Delete)
		}

		wsHandler := handler.NewWebSocketHandler(s.services.DevicePool)
		api.GET("/ws", wsHandler.HandleWebSocket)
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "devicesim control API",
			"docs":    "/api",
		})
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		if c.Request.URL.Path != "/health" && c.Request.URL.Path != "/ready" {
			fmt.Printf("[%s] %s %s %d %v\n",
				time.Now().Format(time.RFC3339),
				c.Request.Method,
				c.Request.URL.Path,
				c.Writer.Status(),
				latency,
			)
		}
	}
}
