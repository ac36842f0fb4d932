package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"devlink/models"
)

// Pusher fans a web push notification out to a user's followers when
// they publish a post. Best effort: failures are logged, expired
// subscriptions (HTTP 410) are dropped, nothing is retried.
type Pusher struct {
	users      *mongo.Collection
	subs       *mongo.Collection
	privateKey string
	subscriber string
}

func NewPusher(users, subs *mongo.Collection, vapidPrivateKey string) *Pusher {
	return &Pusher{
		users:      users,
		subs:       subs,
		privateKey: vapidPrivateKey,
		subscriber: "mailto:admin@devlink.dev",
	}
}

// PostCreated notifies every follower of the author. Runs in its own
// goroutine; callers never wait on it.
func (p *Pusher) PostCreated(authorID, postID primitive.ObjectID) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic in push fan-out: %v", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var author struct {
			Name      string               `bson:"name"`
			Username  string               `bson:"username"`
			Followers []primitive.ObjectID `bson:"followers"`
		}
		if err := p.users.FindOne(ctx, bson.M{"_id": authorID}).Decode(&author); err != nil {
			log.Printf("push fan-out: load author %s: %v", authorID.Hex(), err)
			return
		}
		if len(author.Followers) == 0 {
			return
		}

		cursor, err := p.subs.Find(ctx, bson.M{"userId": bson.M{"$in": author.Followers}})
		if err != nil {
			log.Printf("push fan-out: load subscriptions: %v", err)
			return
		}
		defer cursor.Close(ctx)

		var subs []models.PushSubscription
		if err := cursor.All(ctx, &subs); err != nil {
			log.Printf("push fan-out: decode subscriptions: %v", err)
			return
		}

		authorName := author.Name
		if authorName == "" {
			authorName = author.Username
		}
		if authorName == "" {
			authorName = "Someone"
		}
		payload, err := json.Marshal(map[string]interface{}{
			"title": authorName + " posted",
			"body":  "New post from " + authorName,
			"data":  map[string]interface{}{"postId": postID.Hex()},
		})
		if err != nil {
			return
		}

		for i := range subs {
			p.send(ctx, &subs[i], payload)
		}
	}()
}

func (p *Pusher) send(ctx context.Context, sub *models.PushSubscription, payload []byte) {
	resp, err := webpush.SendNotification(payload, &sub.Sub, &webpush.Options{
		Subscriber:      p.subscriber,
		VAPIDPrivateKey: p.privateKey,
		TTL:             60,
	})
	if err != nil {
		log.Printf("push to user %s failed: %v", sub.UserID.Hex(), err)
		if resp != nil && resp.StatusCode == 410 {
			if _, delErr := p.subs.DeleteOne(ctx, bson.M{"_id": sub.ID}); delErr != nil {
				log.Printf("delete expired subscription: %v", delErr)
			}
		}
		return
	}
	resp.Body.Close()
}
