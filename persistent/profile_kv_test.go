package persistent

import (
	"context"
	"errors"
	"testing"

	"github.com/chatterhq/chatter"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/buntdb"
)

func newBuntClient(t *testing.T) *BuntClient {
	bdb, err := buntdb.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { bdb.Close() })
	return NewBuntClient(bdb)
}

func TestNewKeyValueProfileStoreValidation(t *testing.T) {
	assert := assert.New(t)

	client := newBuntClient(t)

	// unknown backing table fails construction
	_, err := NewKeyValueProfileStore(client, "missing")
	assert.True(errors.Is(err, ErrTableNotFound))

	// a key schema without the ID attribute fails construction
	if !assert.NoError(client.CreateTable("malformed", "Username")) {
		return
	}
	_, err = NewKeyValueProfileStore(client, "malformed")
	assert.True(errors.Is(err, ErrMalformedTableSchema))

	if !assert.NoError(client.CreateTable("profiles", UserIdAttribute)) {
		return
	}
	_, err = NewKeyValueProfileStore(client, "profiles")
	assert.NoError(err)
}

func TestKeyValueProfileStoreRoundTrip(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	client := newBuntClient(t)
	if !assert.NoError(client.CreateTable("profiles", UserIdAttribute)) {
		return
	}
	store, err := NewKeyValueProfileStore(client, "profiles")
	if !assert.NoError(err) {
		return
	}

	_, err = store.ById(ctx, "makin")
	assert.Equal(chatter.ErrProfileNotFound, err)

	profile := chatter.Profile{Id: "makin", Attributes: map[string]string{
		"profession": "dev",
	}}
	if !assert.NoError(store.Write(ctx, profile)) {
		return
	}

	found, err := store.ById(ctx, "makin")
	if !assert.NoError(err) {
		return
	}
	assert.Equal(profile, found)

	assert.NoError(store.Delete(ctx, "makin"))
	_, err = store.ById(ctx, "makin")
	assert.Equal(chatter.ErrProfileNotFound, err)
	assert.NoError(store.Delete(ctx, "makin"))
}

func TestKeyValueProfileStoreForPredicate(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	client := newBuntClient(t)
	if !assert.NoError(client.CreateTable("profiles", UserIdAttribute)) {
		return
	}
	store, err := NewKeyValueProfileStore(client, "profiles")
	if !assert.NoError(err) {
		return
	}

	for id, profession := range map[chatter.UserId]string{
		"dev1": "dev",
		"dev2": "dev",
		"chef": "chef",
	} {
		profile := chatter.Profile{Id: id, Attributes: map[string]string{"profession": profession}}
		if !assert.NoError(store.Write(ctx, profile)) {
			return
		}
	}

	devs, err := store.ForPredicate(ctx, func(p chatter.Profile) bool {
		return p.Attributes["profession"] == "dev"
	})
	if !assert.NoError(err) {
		return
	}
	assert.Len(devs, 2)

	_, err = store.ForPredicate(ctx, nil)
	assert.Equal(chatter.ErrNilPredicate, err)
}
