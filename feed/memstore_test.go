package feed

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devlink/models"
)

// In-memory stands-ins for the mongo-backed stores, matching their
// contracts: newest-first pages, idempotent symmetric follow edges,
// append-only remote image lists.

type memUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[primitive.ObjectID]*models.User{}}
}

func (m *memUsers) add(name, username string) primitive.ObjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	m.users[id] = &models.User{ID: id, Name: name, Username: username}
	return id
}

func (m *memUsers) FindByID(_ context.Context, userID primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *user
	return &clone, nil
}

type memFollows struct {
	users *memUsers
}

func (m *memFollows) Follow(_ context.Context, followerID, targetID primitive.ObjectID) error {
	m.users.mu.Lock()
	defer m.users.mu.Unlock()
	follower, ok := m.users.users[followerID]
	if !ok {
		return ErrNotFound
	}
	target, ok := m.users.users[targetID]
	if !ok {
		return ErrNotFound
	}
	follower.Following = addID(follower.Following, targetID)
	target.Followers = addID(target.Followers, followerID)
	return nil
}

func (m *memFollows) Unfollow(_ context.Context, followerID, targetID primitive.ObjectID) error {
	m.users.mu.Lock()
	defer m.users.mu.Unlock()
	if follower, ok := m.users.users[followerID]; ok {
		follower.Following = removeID(follower.Following, targetID)
	}
	if target, ok := m.users.users[targetID]; ok {
		target.Followers = removeID(target.Followers, followerID)
	}
	return nil
}

func (m *memFollows) Following(_ context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.users.mu.Lock()
	defer m.users.mu.Unlock()
	user, ok := m.users.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]primitive.ObjectID{}, user.Following...), nil
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

type memPosts struct {
	mu    sync.Mutex
	posts []models.Post
}

func (m *memPosts) Create(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *post
	clone.ImagesLocal = append([]string{}, post.ImagesLocal...)
	clone.ImagesRemote = append([]string{}, post.ImagesRemote...)
	m.posts = append(m.posts, clone)
	return nil
}

func (m *memPosts) AttachRemoteImage(_ context.Context, postID primitive.ObjectID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.posts {
		if m.posts[i].ID == postID {
			m.posts[i].ImagesRemote = append(m.posts[i].ImagesRemote, url)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memPosts) FindByID(_ context.Context, postID primitive.ObjectID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.posts {
		if m.posts[i].ID == postID {
			clone := m.posts[i]
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memPosts) FindPage(_ context.Context, q Query, page int) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []models.Post{}
	for _, post := range m.posts {
		if !q.Author.IsZero() && post.AuthorID != q.Author {
			continue
		}
		if q.Authors != nil && !containsID(q.Authors, post.AuthorID) {
			continue
		}
		if q.Category != "" && post.Category != q.Category {
			continue
		}
		matched = append(matched, post)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	skip := (page - 1) * PageSize
	if skip >= len(matched) {
		return []models.Post{}, nil
	}
	end := skip + PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

type memCounts struct {
	comments map[primitive.ObjectID]int64
	likes    map[primitive.ObjectID]int64
}

func newMemCounts() *memCounts {
	return &memCounts{
		comments: map[primitive.ObjectID]int64{},
		likes:    map[primitive.ObjectID]int64{},
	}
}

func (m *memCounts) CommentCount(_ context.Context, postID primitive.ObjectID) (int64, error) {
	return m.comments[postID], nil
}

func (m *memCounts) LikeCount(_ context.Context, postID primitive.ObjectID) (int64, error) {
	return m.likes[postID], nil
}
