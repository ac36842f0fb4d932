package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"devlink/database"
	"devlink/models"
)

func profileResponse(user *models.User) gin.H {
	return gin.H{
		"id":             user.ID.Hex(),
		"name":           user.Name,
		"username":       user.Username,
		"stack":          user.Stack,
		"location":       user.Location,
		"bio":            user.Bio,
		"verified":       user.Verified,
		"avatar":         user.Avatar,
		"followerCount":  len(user.Followers),
		"followingCount": len(user.Following),
	}
}

func GetMyProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": 401, "message": "Invalid user ID"})
		return
	}
	getProfile(c, userID)
}

func GetUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": 422, "message": "Invalid user id"})
		return
	}
	getProfile(c, userID)
}

func getProfile(c *gin.Context, userID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": 200, "profile": profileResponse(&user)})
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Stack    string `json:"stack"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

func UpdateMyProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": 401, "message": "Invalid user ID"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": 422, "message": err.Error()})
		return
	}

	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Stack != "" {
		update["stack"] = req.Stack
	}
	if req.Location != "" {
		update["location"] = req.Location
	}
	if req.Bio != "" {
		update["bio"] = req.Bio
	}
	if req.Avatar != "" {
		update["avatar"] = req.Avatar
	}
	if len(update) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": 422, "message": "Nothing to update"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := database.Users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": 500, "message": "Failed to update profile"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"status": 404, "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Profile updated"})
}
