package store

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"devlink/feed"
)

// Follows is the MongoDB-backed feed.FollowStore. Edges live on the two
// user documents (follower.following and target.followers).
type Follows struct {
	users *mongo.Collection
}

func NewFollows(users *mongo.Collection) *Follows {
	return &Follows{users: users}
}

// Follow writes both halves of the edge with $addToSet, so repeating the
// call changes nothing. If the second write fails the first is rolled
// back, keeping the edge symmetric for any observer.
func (f *Follows) Follow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	res, err := f.users.UpdateOne(ctx,
		bson.M{"_id": followerID},
		bson.M{"$addToSet": bson.M{"following": targetID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return feed.ErrNotFound
	}

	res, err = f.users.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$addToSet": bson.M{"followers": followerID}},
	)
	if err == nil && res.MatchedCount == 0 {
		err = feed.ErrNotFound
	}
	if err != nil {
		if _, rbErr := f.users.UpdateOne(ctx,
			bson.M{"_id": followerID},
			bson.M{"$pull": bson.M{"following": targetID}},
		); rbErr != nil {
			log.Printf("follow rollback failed for %s -> %s: %v", followerID.Hex(), targetID.Hex(), rbErr)
		}
		return err
	}
	return nil
}

// Unfollow pulls both halves; pulling an absent edge is a no-op.
func (f *Follows) Unfollow(ctx context.Context, followerID, targetID primitive.ObjectID) error {
	if _, err := f.users.UpdateOne(ctx,
		bson.M{"_id": followerID},
		bson.M{"$pull": bson.M{"following": targetID}},
	); err != nil {
		return err
	}
	_, err := f.users.UpdateOne(ctx,
		bson.M{"_id": targetID},
		bson.M{"$pull": bson.M{"followers": followerID}},
	)
	return err
}

func (f *Follows) Following(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var doc struct {
		Following []primitive.ObjectID `bson:"following"`
	}
	err := f.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, feed.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Following, nil
}
