package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"devlink/handlers"
	"devlink/middleware"
)

func SetupRouter(uploadsDir string) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Local image copies are served straight off disk until the cloud
	// copy takes over at read time.
	router.Static("/"+uploadsDir, "./"+uploadsDir)

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "time": time.Now().Unix()})
	})

	// Public
	auth := router.Group("/api")
	auth.Use(middleware.RateLimitMiddleware())
	auth.POST("/signup", handlers.Signup)
	auth.POST("/login", handlers.Login)

	router.GET("/api/posts", handlers.GetAllPosts)
	router.GET("/api/posts/:postId", handlers.GetPost)
	router.GET("/api/posts/:postId/comments", handlers.GetComments)
	router.GET("/api/users/:id/posts", handlers.GetUserPosts)
	router.GET("/api/vapid-public-key", handlers.GetVapidPublicKey)

	// Protected
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	protected.GET("/me", handlers.GetMyProfile)
	protected.PUT("/me", handlers.UpdateMyProfile)
	protected.GET("/users/:id", handlers.GetUser)

	protected.POST("/posts", handlers.CreatePost)
	protected.GET("/feed", handlers.GetFeed)

	protected.PUT("/follow", handlers.FollowUser)
	protected.PATCH("/unfollow", handlers.UnfollowUser)

	protected.POST("/comments", handlers.CreateComment)
	protected.POST("/posts/:postId/like", handlers.LikePost)
	protected.DELETE("/posts/:postId/like", handlers.UnlikePost)

	protected.POST("/subscribe", handlers.SubscribePush)

	return router
}
