package feed

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devlink/models"
)

// PageSize is the fixed page length for every listing. Pages are 1-indexed.
const PageSize = 25

// Query narrows a page of posts. The zero value matches everything.
type Query struct {
	// Author, when non-zero, restricts to a single author.
	Author primitive.ObjectID
	// Authors, when non-nil, restricts to the given author set. An empty
	// non-nil set matches nothing (a viewer who follows nobody).
	Authors []primitive.ObjectID
	// Category, when non-empty, restricts to posts of that category. The
	// category is part of the store query, so filtering happens before
	// pagination and a page is full whenever enough matches exist.
	Category string
}

// PostStore persists posts. Implementations must order FindPage results
// newest first and must keep AttachRemoteImage safe under concurrent
// calls for sibling images of the same post.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	AttachRemoteImage(ctx context.Context, postID primitive.ObjectID, url string) error
	FindByID(ctx context.Context, postID primitive.ObjectID) (*models.Post, error)
	FindPage(ctx context.Context, q Query, page int) ([]models.Post, error)
}

// UserStore resolves authors for projection.
type UserStore interface {
	FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

// FollowStore owns the follow graph. Both mutators are idempotent and
// must keep the edge symmetric: B in A.following iff A in B.followers.
type FollowStore interface {
	Follow(ctx context.Context, followerID, targetID primitive.ObjectID) error
	Unfollow(ctx context.Context, followerID, targetID primitive.ObjectID) error
	Following(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// CountStore reads the denormalized engagement counts owned by the
// comment/like collaborators.
type CountStore interface {
	CommentCount(ctx context.Context, postID primitive.ObjectID) (int64, error)
	LikeCount(ctx context.Context, postID primitive.ObjectID) (int64, error)
}
