package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"devlink/feed"
	"devlink/models"
)

// Posts is the MongoDB-backed feed.PostStore.
type Posts struct {
	coll *mongo.Collection
}

func NewPosts(coll *mongo.Collection) *Posts {
	return &Posts{coll: coll}
}

func (p *Posts) Create(ctx context.Context, post *models.Post) error {
	_, err := p.coll.InsertOne(ctx, post)
	return err
}

// AttachRemoteImage appends with $push, so concurrent calls for sibling
// images of the same post never lose an entry.
func (p *Posts) AttachRemoteImage(ctx context.Context, postID primitive.ObjectID, url string) error {
	res, err := p.coll.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"imagesRemote": url}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return feed.ErrNotFound
	}
	return nil
}

func (p *Posts) FindByID(ctx context.Context, postID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := p.coll.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, feed.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (p *Posts) FindPage(ctx context.Context, q feed.Query, page int) ([]models.Post, error) {
	filter := bson.M{}
	if !q.Author.IsZero() {
		filter["authorId"] = q.Author
	}
	if q.Authors != nil {
		filter["authorId"] = bson.M{"$in": q.Authors}
	}
	if q.Category != "" {
		filter["category"] = q.Category
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * feed.PageSize)).
		SetLimit(feed.PageSize)

	cursor, err := p.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}
