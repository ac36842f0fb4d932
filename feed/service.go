package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devlink/models"
)

// Service assembles paginated post listings and single-post views over
// the narrow store seams. It owns the ambiguity decisions: pageNumber <= 0
// is normalized to 1, the category filter is applied before pagination,
// and self-follow is rejected.
type Service struct {
	posts    PostStore
	users    UserStore
	follows  FollowStore
	counts   CountStore
	resolver *Resolver
}

func NewService(posts PostStore, users UserStore, follows FollowStore, counts CountStore, resolver *Resolver) *Service {
	if resolver == nil {
		resolver = NewResolver()
	}
	return &Service{posts: posts, users: users, follows: follows, counts: counts, resolver: resolver}
}

// CreatePost validates and persists a new post. ImagesRemote starts
// empty; the caller kicks off uploads after the response is committed.
func (s *Service) CreatePost(ctx context.Context, authorID primitive.ObjectID, body, category, postedIn string, localImages []string) (*models.Post, error) {
	if strings.TrimSpace(body) == "" || strings.TrimSpace(category) == "" || strings.TrimSpace(postedIn) == "" {
		return nil, fmt.Errorf("%w: body, category and postedIn are required", ErrValidation)
	}
	if _, err := s.users.FindByID(ctx, authorID); err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:           primitive.NewObjectID(),
		AuthorID:     authorID,
		Body:         body,
		Category:     category,
		PostedIn:     postedIn,
		ImagesLocal:  append([]string{}, localImages...),
		ImagesRemote: []string{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Global lists all posts, newest first.
func (s *Service) Global(ctx context.Context, base, category string, page int) ([]PostView, error) {
	return s.page(ctx, base, Query{Category: category}, page)
}

// ByAuthor lists a single author's posts.
func (s *Service) ByAuthor(ctx context.Context, base, authorID, category string, page int) ([]PostView, error) {
	author, err := parseID(authorID, "author id")
	if err != nil {
		return nil, err
	}
	return s.page(ctx, base, Query{Author: author, Category: category}, page)
}

// GraphFeed lists posts authored by anyone the viewer follows. A viewer
// who follows nobody gets an empty page, not an error.
func (s *Service) GraphFeed(ctx context.Context, base, viewerID, category string, page int) ([]PostView, error) {
	viewer, err := parseID(viewerID, "viewer id")
	if err != nil {
		return nil, err
	}
	following, err := s.follows.Following(ctx, viewer)
	if err != nil {
		return nil, err
	}
	if following == nil {
		following = []primitive.ObjectID{}
	}
	return s.page(ctx, base, Query{Authors: following, Category: category}, page)
}

// Get returns the projection of a single post, or ErrNotFound.
func (s *Service) Get(ctx context.Context, base, postID string) (*PostView, error) {
	id, err := parseID(postID, "post id")
	if err != nil {
		return nil, err
	}
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view, err := s.project(ctx, base, post, map[primitive.ObjectID]*models.User{})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// AttachRemoteImage records one finished upload. Calls for sibling
// images may land concurrently and in any order.
func (s *Service) AttachRemoteImage(ctx context.Context, postID primitive.ObjectID, url string) error {
	return s.posts.AttachRemoteImage(ctx, postID, url)
}

// Follow adds the edge followerID -> targetID on both user documents.
// Idempotent. Self-follow is rejected.
func (s *Service) Follow(ctx context.Context, followerID, targetID string) error {
	follower, target, err := parseEdge(followerID, targetID)
	if err != nil {
		return err
	}
	return s.follows.Follow(ctx, follower, target)
}

// Unfollow removes the edge; removing an absent edge is a no-op.
func (s *Service) Unfollow(ctx context.Context, followerID, targetID string) error {
	follower, target, err := parseEdge(followerID, targetID)
	if err != nil {
		return err
	}
	return s.follows.Unfollow(ctx, follower, target)
}

func (s *Service) page(ctx context.Context, base string, q Query, page int) ([]PostView, error) {
	if page < 1 {
		page = 1
	}
	posts, err := s.posts.FindPage(ctx, q, page)
	if err != nil {
		return nil, err
	}

	authors := map[primitive.ObjectID]*models.User{}
	views := make([]PostView, 0, len(posts))
	for i := range posts {
		view, err := s.project(ctx, base, &posts[i], authors)
		if errors.Is(err, ErrNotFound) {
			// Author deleted out from under the post; drop it from the
			// listing rather than failing the whole page.
			continue
		}
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *Service) project(ctx context.Context, base string, post *models.Post, authors map[primitive.ObjectID]*models.User) (*PostView, error) {
	author, ok := authors[post.AuthorID]
	if !ok {
		var err error
		author, err = s.users.FindByID(ctx, post.AuthorID)
		if err != nil {
			return nil, err
		}
		authors[post.AuthorID] = author
	}

	comments, err := s.counts.CommentCount(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	likes, err := s.counts.LikeCount(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	view := Project(post, author, comments, likes, s.resolver.Resolve(base, post))
	return &view, nil
}

func parseID(raw, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: malformed %s", ErrInvalidArgument, what)
	}
	return id, nil
}

func parseEdge(followerID, targetID string) (primitive.ObjectID, primitive.ObjectID, error) {
	follower, err := parseID(followerID, "follower id")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	target, err := parseID(targetID, "target id")
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, err
	}
	if follower == target {
		return primitive.NilObjectID, primitive.NilObjectID, fmt.Errorf("%w: cannot follow yourself", ErrInvalidArgument)
	}
	return follower, target, nil
}
