package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Username     string             `bson:"username" json:"username"`
	Stack        string             `bson:"stack" json:"stack"`
	Location     string             `bson:"location" json:"location"`
	Bio          string             `bson:"bio" json:"bio"`
	Verified     bool               `bson:"verified" json:"verified"`
	Avatar       string             `bson:"avatar" json:"avatar"`

	// Both sides of the follow graph live on the user document. An id
	// appears at most once per set ($addToSet on write).
	Followers []primitive.ObjectID `bson:"followers" json:"-"`
	Following []primitive.ObjectID `bson:"following" json:"-"`

	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
}
