package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type followRequest struct {
	TargetUserID string `json:"targetUserId" binding:"required"`
}

// FollowUser adds the viewer -> target edge. Calling it twice is the
// same as calling it once.
func FollowUser(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": 422, "message": "targetUserId is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := feedSvc.Follow(ctx, c.GetString("userId"), req.TargetUserID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Followed"})
}

// UnfollowUser removes the edge; an absent edge is still a success.
func UnfollowUser(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": 422, "message": "targetUserId is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := feedSvc.Unfollow(ctx, c.GetString("userId"), req.TargetUserID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": 200, "message": "Unfollowed"})
}
