package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"devlink/feed"
	"devlink/models"
)

// Users is the MongoDB-backed feed.UserStore.
type Users struct {
	coll *mongo.Collection
}

func NewUsers(coll *mongo.Collection) *Users {
	return &Users{coll: coll}
}

func (u *Users) FindByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := u.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, feed.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
