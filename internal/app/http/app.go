package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/14kear/hoa-portal/internal/handlers"
	"github.com/14kear/hoa-portal/internal/middleware"
	"github.com/14kear/hoa-portal/internal/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type App struct {
	log    *slog.Logger
	engine *gin.Engine
	server *http.Server
	port   int
}

// NewApp builds the gin engine and wires the route groups.
func NewApp(
	log *slog.Logger,
	port int,
	timeout time.Duration,
	allowedOrigins []string,
	handler *handlers.VotingHandler,
	auth *middleware.AuthMiddleware,
) *App {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
	}))

	// /api/voting/*
	api := r.Group("/api")
	{
		routes.RegisterPublicRoutes(api.Group("/voting"), handler)
		routes.RegisterVoterRoutes(api.Group("/voting", auth.Optional()), handler)
		routes.RegisterAdminRoutes(api.Group("/voting/admin", auth.Required(), auth.AdminOnly()), handler)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}

	return &App{
		log:    log,
		engine: r,
		server: httpServer,
		port:   port,
	}
}

func (a *App) Run() error {
	a.log.Info("HTTP server is running", slog.String("addr", a.server.Addr))
	return a.server.ListenAndServe()
}

func (a *App) Stop(ctx context.Context) error {
	a.log.Info("HTTP server is stopping")
	return a.server.Shutdown(ctx)
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}
