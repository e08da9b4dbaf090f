package mock

import (
	"context"

	"github.com/chatterhq/chatter"
)

type ProfileStore struct {
	WriteFn func(ctx context.Context, profile chatter.Profile) error

	DeleteFn func(ctx context.Context, id chatter.UserId) error

	ByIdFn func(ctx context.Context, id chatter.UserId) (chatter.Profile, error)

	ForPredicateFn func(ctx context.Context, predicate chatter.ProfilePredicate) ([]chatter.Profile, error)
}

func (s ProfileStore) Write(ctx context.Context, profile chatter.Profile) error {
	return s.WriteFn(ctx, profile)
}

func (s ProfileStore) Delete(ctx context.Context, id chatter.UserId) error {
	return s.DeleteFn(ctx, id)
}

func (s ProfileStore) ById(ctx context.Context, id chatter.UserId) (chatter.Profile, error) {
	return s.ByIdFn(ctx, id)
}

func (s ProfileStore) ForPredicate(ctx context.Context, predicate chatter.ProfilePredicate) ([]chatter.Profile, error) {
	return s.ForPredicateFn(ctx, predicate)
}
