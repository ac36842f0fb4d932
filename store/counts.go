package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts reads engagement counts off the comment and like collections.
// The comment/like handlers own the documents; the feed only counts them.
type Counts struct {
	comments *mongo.Collection
	likes    *mongo.Collection
}

func NewCounts(comments, likes *mongo.Collection) *Counts {
	return &Counts{comments: comments, likes: likes}
}

func (c *Counts) CommentCount(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return c.comments.CountDocuments(ctx, bson.M{"postId": postID})
}

func (c *Counts) LikeCount(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return c.likes.CountDocuments(ctx, bson.M{"postId": postID})
}
