package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/camivel/cuentastrack/internal/server/http/handlers"
	"github.com/camivel/cuentastrack/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.TrackerFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	accountHandler := handlers.NewAccountHandler(facade)
	directoryHandler := handlers.NewDirectoryHandler(facade)

	api := engine.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))
	authed.POST("/accounts", accountHandler.Submit)
	authed.GET("/accounts", accountHandler.List)
	authed.GET("/accounts/pending", accountHandler.Pending)
	authed.GET("/accounts/:id", accountHandler.Get)
	authed.POST("/accounts/:id/approve", accountHandler.Approve)
	authed.POST("/accounts/:id/return", accountHandler.Return)
	authed.GET("/dashboard", accountHandler.Dashboard)
	authed.GET("/users", directoryHandler.List)

	return engine
}
