package inmem

import (
	"context"
	"sync"
	"testing"

	"github.com/chatterhq/chatter"
	"github.com/stretchr/testify/assert"
)

func TestPostStoreWriteAssignsSequenceIds(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)

	s := NewPostStore()
	for i, content := range []string{"first", "second", "third"} {
		post, err := chatter.NewPost("alice", content)
		if !assert.NoError(err) {
			return
		}
		assert.False(post.Committed())
		if !assert.NoError(s.Write(ctx, &post)) {
			return
		}
		assert.Equal(chatter.PostId(i+1), post.Id)
		assert.True(post.Committed())
	}

	posts, err := s.ByUser(ctx, "alice")
	if !assert.NoError(err) {
		return
	}
	assert.Len(posts, 3)
	for i, post := range posts {
		assert.Equal(chatter.PostId(i+1), post.Id)
	}
}

func TestPostStoreWriteValidation(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)

	s := NewPostStore()
	assert.Equal(chatter.ErrNilPost, s.Write(ctx, nil))
	assert.Equal(chatter.ErrBlankUserId, s.Write(ctx, &chatter.Post{Content: "hi"}))
}

func TestPostStoreSequenceIdsNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)

	s := NewPostStore()
	hi, _ := chatter.NewPost("alice", "hi")
	yo, _ := chatter.NewPost("alice", "yo")
	assert.NoError(s.Write(ctx, &hi))
	assert.NoError(s.Write(ctx, &yo))

	assert.NoError(s.Delete(ctx, "alice", 1))

	posts, err := s.ByUser(ctx, "alice")
	if !assert.NoError(err) {
		return
	}
	if assert.Len(posts, 1) {
		assert.Equal("yo", posts[0].Content)
		assert.Equal(chatter.PostId(2), posts[0].Id)
	}

	sup, _ := chatter.NewPost("alice", "sup")
	assert.NoError(s.Write(ctx, &sup))
	assert.Equal(chatter.PostId(3), sup.Id)
}

func TestPostStoreDelete(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)

	s := NewPostStore()
	assert.Equal(chatter.ErrBlankUserId, s.Delete(ctx, "", 1))

	// unknown user and unknown id are silent no-ops
	assert.NoError(s.Delete(ctx, "nobody", 1))

	post, _ := chatter.NewPost("alice", "hi")
	assert.NoError(s.Write(ctx, &post))
	assert.NoError(s.Delete(ctx, "alice", 42))

	posts, err := s.ByUser(ctx, "alice")
	if !assert.NoError(err) {
		return
	}
	assert.Len(posts, 1)
}

func TestDeletePostByRecord(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)

	s := NewPostStore()
	post, _ := chatter.NewPost("alice", "hi")
	assert.NoError(s.Write(ctx, &post))

	assert.NoError(chatter.DeletePost(ctx, &s, post))
	posts, err := s.ByUser(ctx, "alice")
	if !assert.NoError(err) {
		return
	}
	assert.Empty(posts)
}

func TestPostStoreById(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)

	s := NewPostStore()
	_, err := s.ById(ctx, "", 1)
	assert.Equal(chatter.ErrBlankUserId, err)

	_, err = s.ById(ctx, "alice", 1)
	assert.Equal(chatter.ErrPostNotFound, err)

	post, _ := chatter.NewPost("alice", "hi")
	assert.NoError(s.Write(ctx, &post))

	found, err := s.ById(ctx, "alice", post.Id)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(post, found)
}

func TestPostStoreByUser(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)

	s := NewPostStore()
	_, err := s.ByUser(ctx, "")
	assert.Equal(chatter.ErrBlankUserId, err)

	posts, err := s.ByUser(ctx, "nobody")
	if !assert.NoError(err) {
		return
	}
	assert.Empty(posts)
}

func TestPostStoreByUserFiltered(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)

	s := NewPostStore()
	for _, content := range []string{"short", "a considerably longer post"} {
		post, _ := chatter.NewPost("alice", content)
		assert.NoError(s.Write(ctx, &post))
	}

	long, err := s.ByUserFiltered(ctx, "alice", func(p chatter.Post) bool {
		return len(p.Content) > 10
	})
	if !assert.NoError(err) {
		return
	}
	if assert.Len(long, 1) {
		assert.Equal("a considerably longer post", long[0].Content)
	}

	_, err = s.ByUserFiltered(ctx, "alice", nil)
	assert.Equal(chatter.ErrNilPredicate, err)

	_, err = s.ByUserFiltered(ctx, "", func(chatter.Post) bool { return true })
	assert.Equal(chatter.ErrBlankUserId, err)
}

func TestPostStoreConcurrentWritersUniqueIds(t *testing.T) {
	ctx := context.Background()
	assert := assert.New(t)

	s := NewPostStore()
	const writers = 16

	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			post, _ := chatter.NewPost("alice", "hi")
			_ = s.Write(ctx, &post)
		}()
	}
	wg.Wait()

	posts, err := s.ByUser(ctx, "alice")
	if !assert.NoError(err) {
		return
	}
	assert.Len(posts, writers)

	seen := map[chatter.PostId]bool{}
	for _, post := range posts {
		assert.False(seen[post.Id])
		seen[post.Id] = true
	}
}
