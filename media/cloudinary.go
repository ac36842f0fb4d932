package media

import (
	"context"
	"log"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RemoteAttacher is the callback seam into the post store: each finished
// upload appends one URL to the post's imagesRemote list.
type RemoteAttacher interface {
	AttachRemoteImage(ctx context.Context, postID primitive.ObjectID, url string) error
}

// Uploader pushes local post images to Cloudinary after the create
// response has already gone out. Every image is its own fire-and-forget
// task; one failure never blocks siblings or touches the post itself.
type Uploader struct {
	cld      *cloudinary.Cloudinary
	posts    RemoteAttacher
	attempts int
	backoff  time.Duration
}

func NewUploader(cloudinaryURL string, posts RemoteAttacher) (*Uploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &Uploader{
		cld:      cld,
		posts:    posts,
		attempts: 3,
		backoff:  5 * time.Second,
	}, nil
}

// UploadPostImages starts one goroutine per image and returns
// immediately. Completion order is whatever the network gives us.
func (u *Uploader) UploadPostImages(postID primitive.ObjectID, paths []string) {
	for _, path := range paths {
		go u.uploadOne(postID, path)
	}
}

func (u *Uploader) uploadOne(postID primitive.ObjectID, path string) {
	var lastErr error
	for attempt := 1; attempt <= u.attempts; attempt++ {
		if attempt > 1 {
			time.Sleep(u.backoff)
		}
		url, err := u.upload(postID, path)
		if err != nil {
			lastErr = err
			log.Printf("upload attempt %d for post %s image %s failed: %v", attempt, postID.Hex(), path, err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = u.posts.AttachRemoteImage(ctx, postID, url)
		cancel()
		if err != nil {
			log.Printf("attach remote image for post %s failed: %v", postID.Hex(), err)
		}
		return
	}
	log.Printf("giving up on post %s image %s after %d attempts: %v", postID.Hex(), path, u.attempts, lastErr)
}

func (u *Uploader) upload(postID primitive.ObjectID, path string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := u.cld.Upload.Upload(ctx, path, uploader.UploadParams{
		Folder:         "devlink/posts/" + postID.Hex(),
		Transformation: "c_limit,w_1600,h_1600,q_auto",
	})
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}
