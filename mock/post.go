package mock

import (
	"context"

	"github.com/chatterhq/chatter"
)

type PostStore struct {
	WriteFn func(ctx context.Context, post *chatter.Post) error

	DeleteFn func(ctx context.Context, userId chatter.UserId, postId chatter.PostId) error

	ByIdFn func(ctx context.Context, userId chatter.UserId, postId chatter.PostId) (chatter.Post, error)

	ByUserFn func(ctx context.Context, userId chatter.UserId) ([]chatter.Post, error)

	ByUserFilteredFn func(ctx context.Context, userId chatter.UserId, predicate chatter.PostPredicate) ([]chatter.Post, error)
}

func (s PostStore) Write(ctx context.Context, post *chatter.Post) error {
	return s.WriteFn(ctx, post)
}

func (s PostStore) Delete(ctx context.Context, userId chatter.UserId, postId chatter.PostId) error {
	return s.DeleteFn(ctx, userId, postId)
}

func (s PostStore) ById(ctx context.Context, userId chatter.UserId, postId chatter.PostId) (chatter.Post, error) {
	return s.ByIdFn(ctx, userId, postId)
}

func (s PostStore) ByUser(ctx context.Context, userId chatter.UserId) ([]chatter.Post, error) {
	return s.ByUserFn(ctx, userId)
}

func (s PostStore) ByUserFiltered(ctx context.Context, userId chatter.UserId, predicate chatter.PostPredicate) ([]chatter.Post, error) {
	return s.ByUserFilteredFn(ctx, userId, predicate)
}
