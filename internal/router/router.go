package router

import (
	"time"

	"github.com/Simonbn1/eksamen/internal/handlers"
	"github.com/Simonbn1/eksamen/internal/middleware"
	"github.com/Simonbn1/eksamen/internal/oauth"
	"github.com/Simonbn1/eksamen/internal/store"
	"github.com/Simonbn1/eksamen/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// New wires the stores and handlers against the injected database
// handle and returns the configured engine.
func New(conn *gorm.DB, providers oauth.Registry) *gin.Engine {
	events := store.NewEventStore(conn)
	users := store.NewUserStore(conn)
	attendances := store.NewAttendanceStore(conn)
	joins := store.NewJoinCoordinator(events, users, attendances)

	hub := handlers.NewHub()
	eventHandler := handlers.NewEventHandler(events, users, attendances, hub)
	joinHandler := handlers.NewJoinHandler(joins)
	userHandler := handlers.NewUserHandler(users, attendances)
	authHandler := handlers.NewAuthHandler(users)
	oauthHandler := handlers.NewOAuthHandler(providers, users)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", hub.Serve)

		event := api.Group("/event")
		{
			event.GET("", eventHandler.ListEvents)
			event.POST("", middleware.OptionalAuth(users), eventHandler.CreateEvent)
			event.GET("/:identifier", eventHandler.GetEvent)
			event.PUT("/:identifier", eventHandler.UpdateEvent)
			event.DELETE("/:identifier", eventHandler.DeleteEvent)
			event.GET("/:identifier/attendees", eventHandler.GetAttendees)
		}

		api.POST("/join/:identifier", joinHandler.JoinEvent)

		user := api.Group("/user")
		{
			user.GET("/events/:userId", userHandler.JoinedEvents)
			user.GET("/joined-events", userHandler.JoinedEvents)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.AuthMiddleware(users), authHandler.Me)
		}

		login := api.Group("/login")
		{
			login.GET("/:provider/start", oauthHandler.Start)
			login.GET("/:provider/callback", oauthHandler.Callback)
		}

		api.GET("/userinfo", middleware.AuthMiddleware(users), oauthHandler.Userinfo)
	}

	return r
}
