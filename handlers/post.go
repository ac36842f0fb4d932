package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreatePost accepts a multipart form (body, category, postedIn,
// images[]). The response goes out as soon as the post and its local
// image copies are persisted; cloud uploads and push fan-out run after,
// fire-and-forget.
func CreatePost(c *gin.Context) {
	userIDStr := c.GetString("userId")
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": 401, "message": "Invalid user ID"})
		return
	}

	body := c.PostForm("body")
	category := c.PostForm("category")
	postedIn := c.PostForm("postedIn")

	// Reject before anything touches disk.
	if strings.TrimSpace(body) == "" || strings.TrimSpace(category) == "" || strings.TrimSpace(postedIn) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": 422, "message": "body, category and postedIn are required"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": 400, "message": "Failed to parse form data"})
		return
	}

	localPaths := []string{}
	for _, fh := range form.File["images"] {
		path, err := uploads.Save(fh)
		if err != nil {
			log.Printf("CreatePost: saving %s: %v", fh.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to store image"})
			return
		}
		localPaths = append(localPaths, path)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	post, err := feedSvc.CreatePost(ctx, userID, body, category, postedIn, localPaths)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  200,
		"message": "Posted Successfully!",
		"postId":  post.ID.Hex(),
	})

	// Already answered; everything below is background work.
	if uploader != nil {
		uploader.UploadPostImages(post.ID, localPaths)
	}
	if pusher != nil {
		pusher.PostCreated(userID, post.ID)
	}
}

// GetAllPosts is the global listing: ?filter=<category>&pageNumber=<n>.
func GetAllPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	posts, err := feedSvc.Global(ctx, requestBase(c), c.Query("filter"), pageNumber(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "posts": posts})
}

// GetUserPosts lists one author's posts.
func GetUserPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	posts, err := feedSvc.ByAuthor(ctx, requestBase(c), c.Param("id"), c.Query("filter"), pageNumber(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "posts": posts})
}

// GetPost returns a single projected post.
func GetPost(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	post, err := feedSvc.Get(ctx, requestBase(c), c.Param("postId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "post": post})
}

// GetFeed lists posts authored by anyone the viewer follows.
func GetFeed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	posts, err := feedSvc.GraphFeed(ctx, requestBase(c), c.GetString("userId"), c.Query("filter"), pageNumber(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "posts": posts})
}

func pageNumber(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("pageNumber"))
	if err != nil {
		return 1
	}
	return n
}
