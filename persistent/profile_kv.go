package persistent

import (
	"context"
	"errors"
	"fmt"

	"github.com/chatterhq/chatter"
)

// UserIdAttribute is the key attribute every profile table must carry.
const UserIdAttribute = "ID"

var ErrMalformedTableSchema = errors.New("profile table key schema is missing the ID attribute")

// KeyValueProfileStore keeps profiles in a durable key/value table.
// Both an unknown table name and a key schema without the ID attribute
// are construction-time failures.
type KeyValueProfileStore struct {
	table KeyValueTable
}

func NewKeyValueProfileStore(client KeyValueClient, tableName string) (*KeyValueProfileStore, error) {
	table, err := client.Table(tableName)
	if err != nil {
		return nil, fmt.Errorf("table %q: %w", tableName, err)
	}
	description := table.Describe()
	for _, attribute := range description.KeySchema {
		if attribute == UserIdAttribute {
			return &KeyValueProfileStore{table: table}, nil
		}
	}
	return nil, fmt.Errorf("table %q: %w", tableName, ErrMalformedTableSchema)
}

var _ chatter.ProfileStore = (*KeyValueProfileStore)(nil)

func (s *KeyValueProfileStore) Write(ctx context.Context, profile chatter.Profile) error {
	if profile.Id == "" {
		return chatter.ErrBlankUserId
	}
	if err := s.table.PutItem(profileToItem(profile)); err != nil {
		return fmt.Errorf("put profile item: %w", err)
	}
	return nil
}

func (s *KeyValueProfileStore) Delete(ctx context.Context, id chatter.UserId) error {
	if err := s.table.DeleteItem(string(id)); err != nil {
		return fmt.Errorf("delete profile item: %w", err)
	}
	return nil
}

func (s *KeyValueProfileStore) ById(ctx context.Context, id chatter.UserId) (chatter.Profile, error) {
	item, ok, err := s.table.GetItem(string(id))
	if err != nil {
		return chatter.Profile{}, fmt.Errorf("get profile item: %w", err)
	}
	if !ok {
		return chatter.Profile{}, chatter.ErrProfileNotFound
	}
	return itemToProfile(item), nil
}

func (s *KeyValueProfileStore) ForPredicate(
	ctx context.Context,
	predicate chatter.ProfilePredicate,
) ([]chatter.Profile, error) {
	if predicate == nil {
		return nil, chatter.ErrNilPredicate
	}
	matched := []chatter.Profile{}
	err := s.table.Scan(func(item Item) error {
		profile := itemToProfile(item)
		if predicate(profile) {
			matched = append(matched, profile)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan profile items: %w", err)
	}
	return matched, nil
}

func profileToItem(profile chatter.Profile) Item {
	attributes := profile.Attributes
	if attributes == nil {
		attributes = map[string]string{}
	}
	return Item{
		Id:         string(profile.Id),
		Attributes: attributes,
	}
}

func itemToProfile(item Item) chatter.Profile {
	attributes := item.Attributes
	if attributes == nil {
		attributes = map[string]string{}
	}
	return chatter.Profile{
		Id:         chatter.UserId(item.Id),
		Attributes: attributes,
	}
}
