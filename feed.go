package chatter

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNilPostStore    = errors.New("post store cannot be nil")
	ErrNilProfileStore = errors.New("profile store cannot be nil")
	ErrNilMatcher      = errors.New("matcher cannot be nil")
)

// FeedBuilder assembles the feed for a user: the concatenation of the
// posts of every profile the matcher deems relevant to that user,
// restricted by the post predicate.
type FeedBuilder struct {
	postStore     PostStore
	profileStore  ProfileStore
	matcher       UserMatcher
	postPredicate PostPredicate
}

func NewFeedBuilder(
	postStore PostStore,
	profileStore ProfileStore,
	matcher UserMatcher,
	postPredicate PostPredicate,
) (*FeedBuilder, error) {
	if postStore == nil {
		return nil, ErrNilPostStore
	}
	if profileStore == nil {
		return nil, ErrNilProfileStore
	}
	if matcher == nil {
		return nil, ErrNilMatcher
	}
	if postPredicate == nil {
		return nil, ErrNilPredicate
	}
	return &FeedBuilder{
		postStore:     postStore,
		profileStore:  profileStore,
		matcher:       matcher,
		postPredicate: postPredicate,
	}, nil
}

// FeedFor returns the pivot user's feed. Within one user the insertion
// order of posts is kept; the order across users is unspecified because
// profile enumeration order is unspecified.
func (b *FeedBuilder) FeedFor(ctx context.Context, pivot Profile) ([]Post, error) {
	relevant, err := b.profileStore.ForPredicate(ctx, func(candidate Profile) bool {
		return b.matcher.Matches(pivot, candidate)
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate relevant profiles: %w", err)
	}

	feed := []Post{}
	for _, profile := range relevant {
		posts, err := b.postStore.ByUserFiltered(ctx, profile.Id, b.postPredicate)
		if err != nil {
			return nil, fmt.Errorf("posts by user %q: %w", profile.Id, err)
		}
		feed = append(feed, posts...)
	}
	return feed, nil
}
