package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is immutable after creation except for ImagesRemote, which the
// upload worker appends to as each cloud upload finishes.
type Post struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID primitive.ObjectID `bson:"authorId" json:"authorId"`
	Body     string             `bson:"body" json:"body"`
	Category string             `bson:"category" json:"category"`
	PostedIn string             `bson:"postedIn" json:"postedIn"`

	// ImagesLocal points at files saved under the uploads dir at create
	// time. ImagesRemote holds cloud URLs, appended out of order as
	// uploads complete. Read-time resolution serves one list or the
	// other, never a mix.
	ImagesLocal  []string `bson:"imagesLocal" json:"-"`
	ImagesRemote []string `bson:"imagesRemote" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
