package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"devlink/database"
	"devlink/feed"
	"devlink/handlers"
	"devlink/media"
	"devlink/notify"
	"devlink/routes"
	"devlink/store"
)

const uploadsDir = "uploads"

func main() {
	log.Println("🚀 Starting Devlink Backend Server...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading config from environment")
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("❌ JWT_SECRET must be set")
	}

	log.Println("🔌 Connecting to MongoDB...")
	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.ConnectMongo(); err != nil {
			dbErr = err
			log.Printf("❌ MongoDB connection attempt %d failed: %v", i, err)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}
	if dbErr != nil {
		log.Fatal("❌ Failed to connect to MongoDB:", dbErr)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	uploads, err := media.NewLocalStore(uploadsDir)
	if err != nil {
		log.Fatal("❌ Failed to create uploads dir:", err)
	}

	posts := store.NewPosts(database.Posts)
	feedSvc := feed.NewService(
		posts,
		store.NewUsers(database.Users),
		store.NewFollows(database.Users),
		store.NewCounts(database.Comments, database.Likes),
		feed.NewResolver(),
	)

	var uploader *media.Uploader
	if url := os.Getenv("CLOUDINARY_URL"); url != "" {
		uploader, err = media.NewUploader(url, posts)
		if err != nil {
			log.Fatal("❌ Cloudinary configuration error:", err)
		}
	} else {
		log.Println("⚠️  CLOUDINARY_URL not set, remote image uploads disabled")
	}

	var pusher *notify.Pusher
	if key := os.Getenv("VAPID_PRIVATE_KEY"); key != "" {
		pusher = notify.NewPusher(database.Users, database.PushSubs, key)
	} else {
		log.Println("⚠️  VAPID_PRIVATE_KEY not set, push notifications disabled")
	}

	handlers.Setup(handlers.Deps{
		Feed:     feedSvc,
		Uploads:  uploads,
		Uploader: uploader,
		Pusher:   pusher,
	})

	router := routes.SetupRouter(uploadsDir)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}
	if err := database.DisconnectMongo(); err != nil {
		log.Println("❌ Mongo disconnect:", err)
	}

	log.Println("👋 Server stopped gracefully")
}
