package mock

import (
	"context"

	"github.com/chatterhq/chatter"
)

type SessionStore struct {
	RegisterNewFn func(ctx context.Context, userId chatter.UserId) (chatter.Session, error)

	ByTokenFn func(token string) (chatter.Session, error)

	InvalidateByAuthTokenFn func(token string) error
}

func (s SessionStore) RegisterNew(ctx context.Context, userId chatter.UserId) (chatter.Session, error) {
	return s.RegisterNewFn(ctx, userId)
}

func (s SessionStore) ByToken(token string) (chatter.Session, error) {
	return s.ByTokenFn(token)
}

func (s SessionStore) InvalidateByAuthToken(token string) error {
	return s.InvalidateByAuthTokenFn(token)
}
