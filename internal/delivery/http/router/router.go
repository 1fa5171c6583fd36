// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"classrank/internal/delivery/http/middleware"
	"classrank/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	SessionMiddleware *middleware.SessionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler       *handler.AuthHandler
	userHandler       *handler.UserHandler
	sessionMiddleware *middleware.SessionMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		userHandler:       params.UserHandler,
		sessionMiddleware: params.SessionMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	// Auth routes. Logout, resend and session read the cookie themselves,
	// so none of them require the session middleware.
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.POST("/resend-verification", r.authHandler.ResendVerification)
		authGroup.GET("/verify-email", r.authHandler.VerifyEmail)
		authGroup.GET("/session", r.authHandler.Session)
	}

	// Account routes that require a live session.
	userGroup := e.Group("/user")
	userGroup.Use(r.sessionMiddleware.Authenticate)
	{
		userGroup.PUT("/profile", r.userHandler.UpdateProfile)
		userGroup.PUT("/preferences", r.userHandler.UpdatePreferences)
		userGroup.POST("/logout-all", r.userHandler.LogoutAll)
	}
}
