package chatter

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

type Session struct {
	Id             string
	UserId         UserId
	Token          string
	LastAccessedAt time.Time
	ExpiresAt      time.Time
}

type SessionStore interface {
	RegisterNew(ctx context.Context, userId UserId) (Session, error)

	ByToken(token string) (Session, error)

	InvalidateByAuthToken(token string) error
}
