package feed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"devlink/models"
)

type fixture struct {
	svc     *Service
	users   *memUsers
	posts   *memPosts
	follows *memFollows
	counts  *memCounts
}

func newFixture() *fixture {
	users := newMemUsers()
	posts := &memPosts{}
	follows := &memFollows{users: users}
	counts := newMemCounts()
	return &fixture{
		svc:     NewService(posts, users, follows, counts, NewResolver()),
		users:   users,
		posts:   posts,
		follows: follows,
		counts:  counts,
	}
}

// addPost inserts directly, bypassing CreatePost, so tests control the
// timestamps that drive ordering.
func (f *fixture) addPost(author primitive.ObjectID, category string, createdAt time.Time) primitive.ObjectID {
	post := models.Post{
		ID:           primitive.NewObjectID(),
		AuthorID:     author,
		Body:         "post body",
		Category:     category,
		PostedIn:     "main",
		ImagesLocal:  []string{},
		ImagesRemote: []string{},
		CreatedAt:    createdAt,
	}
	_ = f.posts.Create(context.Background(), &post)
	return post.ID
}

func TestFollowIdempotentAndSymmetric(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.users.add("Ada", "ada")
	b := f.users.add("Ben", "ben")

	for i := 0; i < 2; i++ {
		if err := f.svc.Follow(ctx, a.Hex(), b.Hex()); err != nil {
			t.Fatalf("follow %d: %v", i, err)
		}
	}

	if got := f.users.users[a].Following; len(got) != 1 || got[0] != b {
		t.Fatalf("following = %v, want exactly [%s]", got, b.Hex())
	}
	if got := f.users.users[b].Followers; len(got) != 1 || got[0] != a {
		t.Fatalf("followers = %v, want exactly [%s]", got, a.Hex())
	}

	// Removing an absent edge is a no-op, not an error.
	if err := f.svc.Unfollow(ctx, b.Hex(), a.Hex()); err != nil {
		t.Fatalf("unfollow absent edge: %v", err)
	}

	if err := f.svc.Unfollow(ctx, a.Hex(), b.Hex()); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if len(f.users.users[a].Following) != 0 || len(f.users.users[b].Followers) != 0 {
		t.Fatalf("edge survived unfollow: following=%v followers=%v",
			f.users.users[a].Following, f.users.users[b].Followers)
	}
}

func TestFollowErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.users.add("Ada", "ada")

	if err := f.svc.Follow(ctx, a.Hex(), a.Hex()); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("self-follow: got %v, want ErrInvalidArgument", err)
	}
	if err := f.svc.Follow(ctx, a.Hex(), primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("follow missing target: got %v, want ErrNotFound", err)
	}
	if err := f.svc.Follow(ctx, "garbage", a.Hex()); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("malformed follower id: got %v, want ErrInvalidArgument", err)
	}
}

func TestPaginationPartitionsOrderedSet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := f.users.add("Ada", "ada")

	base := time.Now().UTC()
	total := 60
	for i := 0; i < total; i++ {
		f.addPost(author, "tech", base.Add(time.Duration(i)*time.Minute))
	}

	seen := map[string]bool{}
	var prev *PostView
	wantSizes := []int{25, 25, 10, 0}
	for page := 1; page <= 4; page++ {
		views, err := f.svc.Global(ctx, "http://host", "", page)
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if len(views) != wantSizes[page-1] {
			t.Fatalf("page %d: got %d posts, want %d", page, len(views), wantSizes[page-1])
		}
		for i := range views {
			if seen[views[i].PostID] {
				t.Fatalf("page %d: post %s appeared twice", page, views[i].PostID)
			}
			seen[views[i].PostID] = true
			if prev != nil && views[i].PostDate.After(prev.PostDate) {
				t.Fatalf("page %d: ordering not newest-first", page)
			}
			prev = &views[i]
		}
	}
	if len(seen) != total {
		t.Fatalf("pages covered %d posts, want %d", len(seen), total)
	}
}

func TestPageZeroNormalizedToOne(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := f.users.add("Ada", "ada")
	f.addPost(author, "tech", time.Now().UTC())

	for _, page := range []int{0, -3} {
		views, err := f.svc.Global(ctx, "http://host", "", page)
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if len(views) != 1 {
			t.Fatalf("page %d: got %d posts, want 1 (normalized to page 1)", page, len(views))
		}
	}
}

func TestCategoryFilterAppliedBeforePagination(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := f.users.add("Ada", "ada")

	// 30 tech and 30 life posts interleaved: a post-pagination filter
	// would leave short pages, a pre-pagination filter fills them.
	base := time.Now().UTC()
	for i := 0; i < 60; i++ {
		category := "tech"
		if i%2 == 1 {
			category = "life"
		}
		f.addPost(author, category, base.Add(time.Duration(i)*time.Minute))
	}

	views, err := f.svc.Global(ctx, "http://host", "tech", 1)
	if err != nil {
		t.Fatalf("filtered page: %v", err)
	}
	if len(views) != 25 {
		t.Fatalf("got %d posts, want a full page of 25 matches", len(views))
	}
	for _, v := range views {
		if v.Category != "tech" {
			t.Fatalf("category filter leaked a %q post", v.Category)
		}
	}

	page2, err := f.svc.Global(ctx, "http://host", "tech", 2)
	if err != nil {
		t.Fatalf("filtered page 2: %v", err)
	}
	if len(page2) != 5 {
		t.Fatalf("page 2: got %d posts, want the remaining 5", len(page2))
	}
}

func TestGraphFeedScopedToFollowedAuthors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	viewer := f.users.add("Vic", "vic")
	a := f.users.add("Ada", "ada")
	b := f.users.add("Ben", "ben")
	other := f.users.add("Omar", "omar")

	if err := f.svc.Follow(ctx, viewer.Hex(), a.Hex()); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Follow(ctx, viewer.Hex(), b.Hex()); err != nil {
		t.Fatal(err)
	}

	base := time.Now().UTC()
	for i := 0; i < 10; i++ {
		f.addPost(a, "tech", base.Add(time.Duration(3*i)*time.Minute))
		f.addPost(b, "tech", base.Add(time.Duration(3*i+1)*time.Minute))
		f.addPost(other, "tech", base.Add(time.Duration(3*i+2)*time.Minute))
	}

	views, err := f.svc.GraphFeed(ctx, "http://host", viewer.Hex(), "", 1)
	if err != nil {
		t.Fatalf("graph feed: %v", err)
	}
	if len(views) != 20 {
		t.Fatalf("got %d posts, want 20 (only followed authors)", len(views))
	}
	for _, v := range views {
		if v.AuthorID != a.Hex() && v.AuthorID != b.Hex() {
			t.Fatalf("feed contains post by unfollowed author %s", v.AuthorID)
		}
	}
}

func TestGraphFeedEmptyWhenFollowingNobody(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	viewer := f.users.add("Vic", "vic")
	author := f.users.add("Ada", "ada")
	f.addPost(author, "tech", time.Now().UTC())

	views, err := f.svc.GraphFeed(ctx, "http://host", viewer.Hex(), "", 1)
	if err != nil {
		t.Fatalf("feed for viewer following nobody: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("got %d posts, want empty list", len(views))
	}
}

func TestCreatePostValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := f.users.add("Ada", "ada")

	cases := []struct {
		body, category, postedIn string
	}{
		{"", "tech", "main"},
		{"hello", "", "main"},
		{"hello", "tech", ""},
		{"   ", "tech", "main"},
	}
	for i, c := range cases {
		if _, err := f.svc.CreatePost(ctx, author, c.body, c.category, c.postedIn, nil); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: got %v, want ErrValidation", i, err)
		}
	}
	if len(f.posts.posts) != 0 {
		t.Fatalf("validation failure persisted %d posts", len(f.posts.posts))
	}

	if _, err := f.svc.CreatePost(ctx, primitive.NewObjectID(), "hello", "tech", "main", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown author: got %v, want ErrNotFound", err)
	}
}

func TestGetPostErrors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	if _, err := f.svc.Get(ctx, "http://host", "not-an-id"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("malformed id: got %v, want ErrInvalidArgument", err)
	}
	if _, err := f.svc.Get(ctx, "http://host", primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("absent id: got %v, want ErrNotFound", err)
	}
}

// The create-then-upload lifecycle: local URLs right after create,
// remote URLs once the local copy is gone and the upload has landed.
func TestImageLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := f.users.add("Ada", "ada")

	dir := t.TempDir()
	localPath := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(localPath, []byte("jpeg bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	post, err := f.svc.CreatePost(ctx, author, "look at this", "tech", "main", []string{localPath})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	view, err := f.svc.Get(ctx, "http://host", post.ID.Hex())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := "http://host/" + localPath
	if len(view.Images) != 1 || view.Images[0] != want {
		t.Fatalf("images = %v, want [%s]", view.Images, want)
	}

	// Cloud upload lands, retention cleanup removes the original.
	if err := f.svc.AttachRemoteImage(ctx, post.ID, "https://cdn/x.jpg"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := os.Remove(localPath); err != nil {
		t.Fatal(err)
	}

	view, err = f.svc.Get(ctx, "http://host", post.ID.Hex())
	if err != nil {
		t.Fatalf("get after upload: %v", err)
	}
	if len(view.Images) != 1 || view.Images[0] != "https://cdn/x.jpg" {
		t.Fatalf("images = %v, want [https://cdn/x.jpg]", view.Images)
	}
}

func TestConcurrentAttachRemoteImageKeepsEveryEntry(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	author := f.users.add("Ada", "ada")
	postID := f.addPost(author, "tech", time.Now().UTC())

	const n = 8
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			done <- f.svc.AttachRemoteImage(ctx, postID, fmt.Sprintf("https://cdn/%d.jpg", i))
		}(i)
	}
	for i := 0; i < n; i++ {
		if err := <-done; err != nil {
			t.Fatalf("attach %d: %v", i, err)
		}
	}

	post, err := f.posts.FindByID(ctx, postID)
	if err != nil {
		t.Fatal(err)
	}
	if len(post.ImagesRemote) != n {
		t.Fatalf("got %d remote images, want %d", len(post.ImagesRemote), n)
	}
}
