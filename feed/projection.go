package feed

import (
	"time"

	"devlink/models"
)

// PostView is the externally shown shape of a post.
type PostView struct {
	PostID       string    `json:"postId"`
	AuthorID     string    `json:"authorId"`
	Username     string    `json:"username"`
	AuthorImage  string    `json:"authorImage"`
	IsVerified   bool      `json:"isVerified"`
	Name         string    `json:"name"`
	CommentCount int64     `json:"commentCount"`
	LikeCount    int64     `json:"likeCount"`
	PostedIn     string    `json:"postedIn"`
	PostBody     string    `json:"postBody"`
	PostDate     time.Time `json:"postDate"`
	Images       []string  `json:"images"`
	Category     string    `json:"category"`
}

// Project maps a post, its author and engagement counts into the wire
// shape. Pure; images must already be resolved.
func Project(post *models.Post, author *models.User, comments, likes int64, images []string) PostView {
	return PostView{
		PostID:       post.ID.Hex(),
		AuthorID:     author.ID.Hex(),
		Username:     author.Username,
		AuthorImage:  author.Avatar,
		IsVerified:   author.Verified,
		Name:         author.Name,
		CommentCount: comments,
		LikeCount:    likes,
		PostedIn:     post.PostedIn,
		PostBody:     post.Body,
		PostDate:     post.CreatedAt,
		Images:       images,
		Category:     post.Category,
	}
}
