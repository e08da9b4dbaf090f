package persistent

import (
	"context"
	crand "crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chatterhq/chatter"
	"github.com/google/uuid"
	"github.com/tidwall/buntdb"
)

const sessionTTL = 30 * 24 * time.Hour // 30 days

type Session struct {
	Id             string    `json:"id"`
	UserId         string    `json:"userId"`
	Token          string    `json:"token"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

func (s Session) ToDomain() chatter.Session {
	return chatter.Session{
		Id:             s.Id,
		UserId:         chatter.UserId(s.UserId),
		Token:          s.Token,
		LastAccessedAt: s.LastAccessedAt,
		ExpiresAt:      s.ExpiresAt,
	}
}

type SessionStore struct {
	Buntdb *buntdb.DB
}

var _ chatter.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) CreateIndexes() {
	s.Buntdb.CreateIndex("sessions", "session:*", buntdb.IndexString)
}

func (s *SessionStore) RegisterNew(ctx context.Context, userId chatter.UserId) (chatter.Session, error) {
	if userId == "" {
		return chatter.Session{}, chatter.ErrBlankUserId
	}
	token, err := generateSessionToken()
	if err != nil {
		return chatter.Session{}, fmt.Errorf("generate token: %w", err)
	}

	session := Session{
		Id:             uuid.New().String(),
		UserId:         string(userId),
		Token:          token,
		LastAccessedAt: time.Now().UTC(),
		ExpiresAt:      time.Now().UTC().Add(sessionTTL),
	}
	serializedSession, err := json.Marshal(&session)
	if err != nil {
		return chatter.Session{}, fmt.Errorf("session serialize: %w", err)
	}

	err = s.Buntdb.Update(func(tx *buntdb.Tx) error {
		options := &buntdb.SetOptions{Expires: true, TTL: sessionTTL}
		_, _, err := tx.Set("session:"+session.Token, string(serializedSession), options)
		return err
	})
	if err != nil {
		return chatter.Session{}, fmt.Errorf("bunt update: %w", err)
	}
	return session.ToDomain(), nil
}

func (s *SessionStore) ByToken(token string) (chatter.Session, error) {
	var session Session
	err := s.Buntdb.View(func(tx *buntdb.Tx) error {
		serializedSession, err := tx.Get("session:" + token)
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(serializedSession), &session); err != nil {
			return fmt.Errorf("deserialize session: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return chatter.Session{}, chatter.ErrSessionNotFound
		}
		return chatter.Session{}, fmt.Errorf("bunt view: %w", err)
	}
	return session.ToDomain(), nil
}

func (s *SessionStore) InvalidateByAuthToken(token string) error {
	err := s.Buntdb.Update(func(tx *buntdb.Tx) error {
		_, err := tx.Delete("session:" + token)
		return err
	})
	if err != nil {
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("bunt update: %w", err)
	}
	return nil
}

// Colons are replaced to keep tokens out of the buntdb key namespace.
func generateSessionToken() (string, error) {
	buf := make([]byte, 36)
	if _, err := crand.Read(buf); err != nil {
		return "", fmt.Errorf("rand read: %w", err)
	}
	token := base64.StdEncoding.EncodeToString(buf)
	return strings.Replace(token, ":", "_", -1), nil
}
