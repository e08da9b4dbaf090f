package chatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPost(t *testing.T) {
	assert := assert.New(t)

	_, err := NewPost("", "hi")
	assert.Equal(ErrBlankUserId, err)

	post, err := NewPost("makin", "hi")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(UserId("makin"), post.UserId)
	assert.Equal("hi", post.Content)
	assert.Equal(PendingPostId, post.Id)
	assert.False(post.Committed())

	post.Id = 1
	assert.True(post.Committed())
}

func TestPostEqualValue(t *testing.T) {
	assert := assert.New(t)

	a := Post{UserId: "makin", Id: 1, Content: "hi"}
	b := Post{UserId: "makin", Id: 7, Content: "hi"}
	c := Post{UserId: "makin", Id: 1, Content: "yo"}
	d := Post{UserId: "other", Id: 1, Content: "hi"}

	// ids do not participate in value equality
	assert.True(a.EqualValue(b))
	assert.False(a.EqualValue(c))
	assert.False(a.EqualValue(d))
}
