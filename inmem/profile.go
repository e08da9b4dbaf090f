package inmem

import (
	"context"
	"sync"

	"github.com/chatterhq/chatter"
)

type ProfileStore struct {
	profiles map[chatter.UserId]chatter.Profile
	mutex    sync.RWMutex
}

func NewProfileStore() ProfileStore {
	return ProfileStore{
		profiles: map[chatter.UserId]chatter.Profile{},
		mutex:    sync.RWMutex{},
	}
}

var _ chatter.ProfileStore = (*ProfileStore)(nil)

func (s *ProfileStore) Write(ctx context.Context, profile chatter.Profile) error {
	if profile.Id == "" {
		return chatter.ErrBlankUserId
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.profiles[profile.Id] = profile
	return nil
}

func (s *ProfileStore) Delete(ctx context.Context, id chatter.UserId) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.profiles, id)
	return nil
}

func (s *ProfileStore) ById(ctx context.Context, id chatter.UserId) (chatter.Profile, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	profile, ok := s.profiles[id]
	if !ok {
		return chatter.Profile{}, chatter.ErrProfileNotFound
	}
	return profile, nil
}

func (s *ProfileStore) ForPredicate(
	ctx context.Context,
	predicate chatter.ProfilePredicate,
) ([]chatter.Profile, error) {
	if predicate == nil {
		return nil, chatter.ErrNilPredicate
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	matched := []chatter.Profile{}
	for _, profile := range s.profiles {
		if predicate(profile) {
			matched = append(matched, profile)
		}
	}
	return matched, nil
}
