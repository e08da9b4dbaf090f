package inmem

import (
	"context"
	"sync"

	"github.com/chatterhq/chatter"
)

type PostStore struct {
	lastIds map[chatter.UserId]chatter.PostId
	posts   map[chatter.UserId][]chatter.Post
	mutex   sync.RWMutex
}

func NewPostStore() PostStore {
	return PostStore{
		lastIds: map[chatter.UserId]chatter.PostId{},
		posts:   map[chatter.UserId][]chatter.Post{},
		mutex:   sync.RWMutex{},
	}
}

var _ chatter.PostStore = (*PostStore)(nil)

// Write claims the user's next sequence id and appends the post, both
// under the store lock so concurrent writers cannot assign the same id.
// Ids are never reused, even after deletes.
func (s *PostStore) Write(ctx context.Context, post *chatter.Post) error {
	if post == nil {
		return chatter.ErrNilPost
	}
	if post.UserId == "" {
		return chatter.ErrBlankUserId
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.lastIds[post.UserId]++
	post.Id = s.lastIds[post.UserId]
	s.posts[post.UserId] = append(s.posts[post.UserId], *post)
	return nil
}

func (s *PostStore) Delete(ctx context.Context, userId chatter.UserId, postId chatter.PostId) error {
	if userId == "" {
		return chatter.ErrBlankUserId
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	uposts := s.posts[userId]
	for i, post := range uposts {
		if post.Id == postId {
			s.posts[userId] = append(uposts[:i:i], uposts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *PostStore) ById(ctx context.Context, userId chatter.UserId, postId chatter.PostId) (chatter.Post, error) {
	if userId == "" {
		return chatter.Post{}, chatter.ErrBlankUserId
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, post := range s.posts[userId] {
		if post.Id == postId {
			return post, nil
		}
	}
	return chatter.Post{}, chatter.ErrPostNotFound
}

func (s *PostStore) ByUser(ctx context.Context, userId chatter.UserId) ([]chatter.Post, error) {
	if userId == "" {
		return nil, chatter.ErrBlankUserId
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	uposts := s.posts[userId]
	posts := make([]chatter.Post, len(uposts))
	copy(posts, uposts)
	return posts, nil
}

func (s *PostStore) ByUserFiltered(
	ctx context.Context,
	userId chatter.UserId,
	predicate chatter.PostPredicate,
) ([]chatter.Post, error) {
	if userId == "" {
		return nil, chatter.ErrBlankUserId
	}
	if predicate == nil {
		return nil, chatter.ErrNilPredicate
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	posts := []chatter.Post{}
	for _, post := range s.posts[userId] {
		if predicate(post) {
			posts = append(posts, post)
		}
	}
	return posts, nil
}
