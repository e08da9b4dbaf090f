package chatter

import (
	"context"
	"errors"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNilPost      = errors.New("post cannot be nil")
)

type PostId int64

// PendingPostId marks a post that has not been committed to a store yet.
// Stores assign the real sequence id on Write.
const PendingPostId PostId = -1

// Post is an immutable-content message owned by one user. Id is per-user,
// 1-based, assigned by the store and never reused after deletion.
type Post struct {
	UserId  UserId
	Id      PostId
	Content string
}

func NewPost(userId UserId, content string) (Post, error) {
	if userId == "" {
		return Post{}, ErrBlankUserId
	}
	return Post{UserId: userId, Id: PendingPostId, Content: content}, nil
}

func (p Post) Committed() bool {
	return p.Id > 0
}

// EqualValue compares posts by (UserId, Content) only. Storage identity
// is (UserId, Id); two distinct stored posts with the same text compare
// equal here, so keep this out of any indexing.
func (p Post) EqualValue(other Post) bool {
	return p.UserId == other.UserId && p.Content == other.Content
}

// DeletePost removes the post from the store by its (UserId, Id)
// storage identity.
func DeletePost(ctx context.Context, store PostStore, post Post) error {
	return store.Delete(ctx, post.UserId, post.Id)
}

type PostPredicate func(post Post) bool

type PostStore interface {
	// Write assigns the next sequence id for the post's user and stores
	// the post. The assignment and the insert are one atomic unit per user.
	Write(ctx context.Context, post *Post) error

	// Delete removes the post with the given id from the user's posts.
	// Unknown user or id is a silent no-op.
	Delete(ctx context.Context, userId UserId, postId PostId) error

	// ById returns ErrPostNotFound for an unknown (userId, postId) pair.
	ById(ctx context.Context, userId UserId, postId PostId) (Post, error)

	// ByUser returns the user's posts in insertion order. An unknown
	// user has zero posts, not an error.
	ByUser(ctx context.Context, userId UserId) ([]Post, error)

	// ByUserFiltered is ByUser restricted to posts accepted by the
	// predicate. A nil predicate is an error; use ByUser for "all posts".
	ByUserFiltered(ctx context.Context, userId UserId, predicate PostPredicate) ([]Post, error)
}
