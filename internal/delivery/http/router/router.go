// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"ridelink/config"
	"ridelink/internal/delivery/http/middleware"
	"ridelink/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	Config          *config.Config
	UserHandler     *handler.UserHandler
	ProfileHandler  *handler.ProfileHandler
	SessionHandler  *handler.SessionHandler
	LocationHandler *handler.LocationHandler
	PaymentHandler  *handler.PaymentHandler
	AdminHandler    *handler.AdminHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	cfg             *config.Config
	userHandler     *handler.UserHandler
	profileHandler  *handler.ProfileHandler
	sessionHandler  *handler.SessionHandler
	locationHandler *handler.LocationHandler
	paymentHandler  *handler.PaymentHandler
	adminHandler    *handler.AdminHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		cfg:             params.Config,
		userHandler:     params.UserHandler,
		profileHandler:  params.ProfileHandler,
		sessionHandler:  params.SessionHandler,
		locationHandler: params.LocationHandler,
		paymentHandler:  params.PaymentHandler,
		adminHandler:    params.AdminHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Credential routes. Registration, login and refresh sit behind a
	// per-IP rate limiter to slow down guessing.
	loginLimiter := middleware.NewLoginRateLimiter(r.cfg)
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register/passenger", r.userHandler.RegisterPassenger, loginLimiter)
		authGroup.POST("/register/driver", r.userHandler.RegisterDriver, loginLimiter)
		authGroup.POST("/login", r.userHandler.Login, loginLimiter)
		authGroup.POST("/refresh", r.userHandler.RefreshToken, loginLimiter)
		authGroup.POST("/logout", r.userHandler.Logout)
	}

	// Profile routes for the authenticated account.
	meGroup := e.Group("/users/me")
	meGroup.Use(r.authMiddleware.Authenticate)
	{
		meGroup.GET("", r.profileHandler.GetProfile)
		meGroup.PATCH("", r.profileHandler.UpdateProfile)
		meGroup.PUT("/password", r.profileHandler.ChangePassword)
		meGroup.POST("/driver", r.profileHandler.ActivateDriver)
		meGroup.POST("/photo", r.profileHandler.UploadPhoto)
		meGroup.GET("/photo", r.profileHandler.GetPhoto)
		meGroup.DELETE("/photo", r.profileHandler.DeletePhoto)
	}

	// Session management for the authenticated account.
	sessionGroup := e.Group("/sessions")
	sessionGroup.Use(r.authMiddleware.Authenticate)
	{
		sessionGroup.GET("", r.sessionHandler.ListSessions)
		sessionGroup.DELETE("/others", r.sessionHandler.RevokeOtherSessions)
		sessionGroup.DELETE("/:id", r.sessionHandler.RevokeSession)
		sessionGroup.DELETE("", r.sessionHandler.RevokeAllSessions)
	}

	// Saved locations, passenger accounts only. The role check happens in
	// the use case so the response can distinguish missing profile from
	// missing resource.
	locationGroup := e.Group("/locations")
	locationGroup.Use(r.authMiddleware.Authenticate)
	{
		locationGroup.POST("", r.locationHandler.CreateLocation)
		locationGroup.GET("", r.locationHandler.ListLocations)
		locationGroup.PATCH("/:id", r.locationHandler.UpdateLocation)
		locationGroup.DELETE("/:id", r.locationHandler.DeleteLocation)
	}

	// Payment methods, passenger accounts only.
	paymentGroup := e.Group("/payment-methods")
	paymentGroup.Use(r.authMiddleware.Authenticate)
	{
		paymentGroup.POST("", r.paymentHandler.AddPaymentMethod)
		paymentGroup.GET("", r.paymentHandler.ListPaymentMethods)
		paymentGroup.PUT("/:id/default", r.paymentHandler.SetDefaultPaymentMethod)
		paymentGroup.DELETE("/:id", r.paymentHandler.RemovePaymentMethod)
	}

	// Administrative routes, admin role required.
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole("admin"))
	{
		adminGroup.GET("/users/:id", r.adminHandler.GetUser)
		adminGroup.DELETE("/users/:id", r.adminHandler.DeleteUser)
		adminGroup.DELETE("/users/:id/sessions", r.adminHandler.RevokeUserSessions)
		adminGroup.GET("/users/:id/events", r.adminHandler.ListUserEvents)
	}
}
