package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devlink/database"
	"devlink/models"
)

// Comments and likes own their documents here; the feed core only ever
// reads their counts.

type commentRequest struct {
	PostID string `json:"postId" binding:"required"`
	Body   string `json:"body" binding:"required"`
}

func CreateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": 422, "message": err.Error()})
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": 422, "message": "Add 'body'."})
		return
	}

	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": 401, "message": "Invalid user ID"})
		return
	}
	postID, err := primitive.ObjectIDFromHex(req.PostID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": 422, "message": "Invalid post id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if count, err := database.Posts.CountDocuments(ctx, bson.M{"_id": postID}); err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "Post not found"})
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		AuthorID:  userID,
		Body:      req.Body,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := database.Comments.InsertOne(ctx, comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to save comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": 200, "commentId": comment.ID.Hex()})
}

func GetComments(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": 422, "message": "Invalid post id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := database.Comments.Find(ctx, bson.M{"postId": postID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to fetch comments"})
		return
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to decode comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": 200, "comments": comments})
}

// LikePost is idempotent: liking an already-liked post changes nothing.
func LikePost(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": 401, "message": "Invalid user ID"})
		return
	}
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": 422, "message": "Invalid post id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if count, err := database.Posts.CountDocuments(ctx, bson.M{"_id": postID}); err != nil || count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "Post not found"})
		return
	}

	_, err = database.Likes.UpdateOne(ctx,
		bson.M{"postId": postID, "userId": userID},
		bson.M{"$setOnInsert": models.Like{
			ID:        primitive.NewObjectID(),
			PostID:    postID,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to like post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Liked"})
}

func UnlikePost(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": 401, "message": "Invalid user ID"})
		return
	}
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": 422, "message": "Invalid post id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Likes.DeleteOne(ctx, bson.M{"postId": postID, "userId": userID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to unlike post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Unliked"})
}
