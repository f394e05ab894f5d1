package content

import (
	"context"
	"testing"

	"github.com/sociumlabs/socium/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingInvalidator counts evictions instead of touching a cache.
type recordingInvalidator struct {
	userFeeds     []int64
	followerFeeds []int64
	public        int
}

func (r *recordingInvalidator) InvalidateUserFeed(_ context.Context, userID int64) {
	r.userFeeds = append(r.userFeeds, userID)
}

func (r *recordingInvalidator) InvalidateFollowerFeeds(_ context.Context, authorID int64) {
	r.followerFeeds = append(r.followerFeeds, authorID)
}

func (r *recordingInvalidator) InvalidatePublicFeed(context.Context) {
	r.public++
}

// fakePosts implements PostStore over an in-memory map.
type fakePosts struct {
	posts  map[int64]*types.Post
	nextID int64
}

func newFakePosts(posts ...*types.Post) *fakePosts {
	f := &fakePosts{posts: make(map[int64]*types.Post), nextID: 100}
	for _, post := range posts {
		f.posts[post.ID] = post
	}

	return f
}

func (f *fakePosts) CreatePost(_ context.Context, post *types.Post) error {
	f.nextID++
	post.ID = f.nextID
	f.posts[post.ID] = post

	return nil
}

func (f *fakePosts) FindPost(_ context.Context, id int64) (*types.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, types.ErrPostNotFound
	}

	return post, nil
}

func (f *fakePosts) FindPostWithCounts(ctx context.Context, id int64) (*types.Post, error) {
	return f.FindPost(ctx, id)
}

func (f *fakePosts) ListByAuthor(_ context.Context, authorID int64, _, _ int) ([]*types.Post, error) {
	var posts []*types.Post
	for _, post := range f.posts {
		if post.UserID == authorID {
			posts = append(posts, post)
		}
	}

	return posts, nil
}

func (f *fakePosts) UpdatePost(_ context.Context, post *types.Post) error {
	f.posts[post.ID] = post
	return nil
}

func (f *fakePosts) DeletePost(_ context.Context, id int64) error {
	delete(f.posts, id)
	return nil
}

// fakeLikes implements LikeStore over a user/post edge set.
type fakeLikes struct {
	liked map[[2]int64]struct{}
}

func newFakeLikes() *fakeLikes {
	return &fakeLikes{liked: make(map[[2]int64]struct{})}
}

func (f *fakeLikes) CreateLike(_ context.Context, userID, postID int64) (bool, error) {
	key := [2]int64{userID, postID}
	if _, ok := f.liked[key]; ok {
		return false, nil
	}

	f.liked[key] = struct{}{}

	return true, nil
}

func (f *fakeLikes) DeleteLike(_ context.Context, userID, postID int64) (bool, error) {
	key := [2]int64{userID, postID}
	if _, ok := f.liked[key]; !ok {
		return false, nil
	}

	delete(f.liked, key)

	return true, nil
}

func (f *fakeLikes) ListUsersForPost(context.Context, int64, int, int) ([]*types.User, error) {
	return nil, nil
}

// fakeFollows implements FollowStore over a follower/following edge set.
type fakeFollows struct {
	edges map[[2]int64]struct{}
}

func newFakeFollows() *fakeFollows {
	return &fakeFollows{edges: make(map[[2]int64]struct{})}
}

func (f *fakeFollows) CreateFollow(_ context.Context, followerID, followingID int64) (bool, error) {
	key := [2]int64{followerID, followingID}
	if _, ok := f.edges[key]; ok {
		return false, nil
	}

	f.edges[key] = struct{}{}

	return true, nil
}

func (f *fakeFollows) DeleteFollow(_ context.Context, followerID, followingID int64) (bool, error) {
	key := [2]int64{followerID, followingID}
	if _, ok := f.edges[key]; !ok {
		return false, nil
	}

	delete(f.edges, key)

	return true, nil
}

func (f *fakeFollows) IsFollowing(_ context.Context, followerID, followingID int64) (bool, error) {
	_, ok := f.edges[[2]int64{followerID, followingID}]
	return ok, nil
}

func (f *fakeFollows) ListFollowing(context.Context, int64, int, int) ([]*types.User, error) {
	return nil, nil
}

func (f *fakeFollows) ListFollowers(context.Context, int64, int, int) ([]*types.User, error) {
	return nil, nil
}

// fakeUsers implements UserStore over a static map.
type fakeUsers struct {
	users map[int64]*types.User
}

func (f *fakeUsers) FindUser(_ context.Context, id int64) (*types.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, types.ErrUserNotFound
	}

	return user, nil
}

// fakeComments implements CommentStore over an in-memory map.
type fakeComments struct {
	comments map[int64]*types.Comment
	nextID   int64
}

func newFakeComments(comments ...*types.Comment) *fakeComments {
	f := &fakeComments{comments: make(map[int64]*types.Comment), nextID: 200}
	for _, comment := range comments {
		f.comments[comment.ID] = comment
	}

	return f
}

func (f *fakeComments) CreateComment(_ context.Context, comment *types.Comment) error {
	f.nextID++
	comment.ID = f.nextID
	f.comments[comment.ID] = comment

	return nil
}

func (f *fakeComments) ListForPost(_ context.Context, postID int64, _, _ int) ([]*types.Comment, error) {
	var comments []*types.Comment
	for _, comment := range f.comments {
		if comment.PostID == postID {
			comments = append(comments, comment)
		}
	}

	return comments, nil
}

func (f *fakeComments) DeleteComment(_ context.Context, id, userID int64) (bool, error) {
	comment, ok := f.comments[id]
	if !ok || comment.UserID != userID {
		return false, nil
	}

	delete(f.comments, id)

	return true, nil
}

func TestLikeIdempotent(t *testing.T) {
	t.Parallel()

	posts := newFakePosts(&types.Post{ID: 5, UserID: 2})
	inv := &recordingInvalidator{}
	svc := NewLikeService(posts, newFakeLikes(), inv, zap.NewNop())

	created, err := svc.Like(t.Context(), 1, 5)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, inv.public)

	// Second like is a signal, not an error, and must not evict again
	created, err = svc.Like(t.Context(), 1, 5)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, inv.public)
}

func TestLikeMissingPost(t *testing.T) {
	t.Parallel()

	inv := &recordingInvalidator{}
	svc := NewLikeService(newFakePosts(), newFakeLikes(), inv, zap.NewNop())

	_, err := svc.Like(t.Context(), 1, 99)
	require.ErrorIs(t, err, types.ErrPostNotFound)
	assert.Zero(t, inv.public)
}

func TestUnlikeNeverLiked(t *testing.T) {
	t.Parallel()

	posts := newFakePosts(&types.Post{ID: 5, UserID: 2})
	inv := &recordingInvalidator{}
	svc := NewLikeService(posts, newFakeLikes(), inv, zap.NewNop())

	deleted, err := svc.Unlike(t.Context(), 1, 5)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Zero(t, inv.public)
}

func TestFollowSelf(t *testing.T) {
	t.Parallel()

	inv := &recordingInvalidator{}
	svc := NewFollowService(&fakeUsers{}, newFakeFollows(), inv, zap.NewNop())

	err := svc.Follow(t.Context(), 1, 1)
	require.ErrorIs(t, err, types.ErrSelfFollow)
	assert.Empty(t, inv.userFeeds)
}

func TestFollowUnknownUser(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{users: map[int64]*types.User{}}
	svc := NewFollowService(users, newFakeFollows(), &recordingInvalidator{}, zap.NewNop())

	err := svc.Follow(t.Context(), 1, 2)
	require.ErrorIs(t, err, types.ErrUserNotFound)
}

func TestFollowAndUnfollow(t *testing.T) {
	t.Parallel()

	users := &fakeUsers{users: map[int64]*types.User{2: {ID: 2}}}
	inv := &recordingInvalidator{}
	svc := NewFollowService(users, newFakeFollows(), inv, zap.NewNop())

	require.NoError(t, svc.Follow(t.Context(), 1, 2))
	assert.Equal(t, []int64{1}, inv.userFeeds, "the follower's feed changed, not the followee's")

	err := svc.Follow(t.Context(), 1, 2)
	require.ErrorIs(t, err, types.ErrAlreadyFollowing)
	assert.Len(t, inv.userFeeds, 1, "duplicate follow must not evict")

	require.NoError(t, svc.Unfollow(t.Context(), 1, 2))
	assert.Equal(t, []int64{1, 1}, inv.userFeeds)

	err = svc.Unfollow(t.Context(), 1, 2)
	require.ErrorIs(t, err, types.ErrNotFollowing)
}

func TestCreatePostInvalidatesFollowers(t *testing.T) {
	t.Parallel()

	inv := &recordingInvalidator{}
	svc := NewPostService(newFakePosts(), inv, zap.NewNop())

	post, err := svc.CreatePost(t.Context(), 7, "title", "content", "")
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.Equal(t, []int64{7}, inv.followerFeeds)
}

func TestUpdatePostOwnership(t *testing.T) {
	t.Parallel()

	posts := newFakePosts(&types.Post{ID: 5, UserID: 2, Title: "old"})
	inv := &recordingInvalidator{}
	svc := NewPostService(posts, inv, zap.NewNop())

	_, err := svc.UpdatePost(t.Context(), 5, 1, "new", "content", "")
	require.ErrorIs(t, err, types.ErrNotPostOwner)
	assert.Empty(t, inv.followerFeeds)

	post, err := svc.UpdatePost(t.Context(), 5, 2, "new", "content", "")
	require.NoError(t, err)
	assert.Equal(t, "new", post.Title)
	assert.Equal(t, []int64{2}, inv.followerFeeds)
}

func TestDeletePostOwnership(t *testing.T) {
	t.Parallel()

	posts := newFakePosts(&types.Post{ID: 5, UserID: 2})
	inv := &recordingInvalidator{}
	svc := NewPostService(posts, inv, zap.NewNop())

	err := svc.DeletePost(t.Context(), 5, 1)
	require.ErrorIs(t, err, types.ErrNotPostOwner)

	require.NoError(t, svc.DeletePost(t.Context(), 5, 2))
	assert.Equal(t, []int64{2}, inv.followerFeeds)

	err = svc.DeletePost(t.Context(), 5, 2)
	require.ErrorIs(t, err, types.ErrPostNotFound)
}

func TestAddComment(t *testing.T) {
	t.Parallel()

	posts := newFakePosts(&types.Post{ID: 5, UserID: 2})
	inv := &recordingInvalidator{}
	svc := NewCommentService(posts, newFakeComments(), inv, zap.NewNop())

	comment, err := svc.AddComment(t.Context(), 1, 5, "nice post")
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
	assert.Equal(t, 1, inv.public)

	_, err = svc.AddComment(t.Context(), 1, 99, "nope")
	require.ErrorIs(t, err, types.ErrPostNotFound)
	assert.Equal(t, 1, inv.public)
}

func TestDeleteComment(t *testing.T) {
	t.Parallel()

	comments := newFakeComments(&types.Comment{ID: 9, PostID: 5, UserID: 1})
	inv := &recordingInvalidator{}
	svc := NewCommentService(newFakePosts(), comments, inv, zap.NewNop())

	// Someone else's comment reads as not found
	err := svc.DeleteComment(t.Context(), 9, 2)
	require.ErrorIs(t, err, types.ErrCommentNotFound)
	assert.Zero(t, inv.public)

	require.NoError(t, svc.DeleteComment(t.Context(), 9, 1))
	assert.Equal(t, 1, inv.public)
}
