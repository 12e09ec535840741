package controllers

import (
	"Hospitality/handlers"
	"Hospitality/middlewares"
	"Hospitality/session"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
	Store   *session.Store
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler, store *session.Store) *AuthController {
	return &AuthController{
		Handler: authHandler,
		Store:   store,
	}
}

// RegisterRoutes initializes all authentication routes directly on the router
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	// Public route: logging in is how a session token is obtained
	router.POST("/auth/session", ac.Handler.CreateSession)

	// Protected route: logout requires the session it destroys
	authGroup := router.Group("/auth").Use(middlewares.SessionAuthMiddleware(ac.Store))
	{
		authGroup.DELETE("/session", ac.Handler.DestroySession)
	}
}
