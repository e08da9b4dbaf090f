package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chatterhq/chatter"
	"github.com/uptrace/bun"
)

type Profile struct {
	bun.BaseModel `bun:"table:profile"`

	Id         string            `bun:"id,pk"`
	Attributes map[string]string `bun:"attributes,notnull,type:jsonb"`
}

func (p Profile) ToDomain() chatter.Profile {
	attributes := p.Attributes
	if attributes == nil {
		attributes = map[string]string{}
	}
	return chatter.Profile{
		Id:         chatter.UserId(p.Id),
		Attributes: attributes,
	}
}

type ProfileStore struct {
	DB *bun.DB
}

var _ chatter.ProfileStore = (*ProfileStore)(nil)

func (s *ProfileStore) Write(ctx context.Context, profile chatter.Profile) error {
	if profile.Id == "" {
		return chatter.ErrBlankUserId
	}
	model := &Profile{
		Id:         string(profile.Id),
		Attributes: profile.Attributes,
	}
	if model.Attributes == nil {
		model.Attributes = map[string]string{}
	}
	_, err := s.DB.NewInsert().
		Model(model).
		On(`CONFLICT (id) DO UPDATE SET attributes=EXCLUDED.attributes`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) Delete(ctx context.Context, id chatter.UserId) error {
	_, err := s.DB.NewDelete().
		Model((*Profile)(nil)).
		Where(`id=?`, string(id)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) ById(ctx context.Context, id chatter.UserId) (chatter.Profile, error) {
	profile := new(Profile)
	err := s.DB.NewSelect().
		Model(profile).
		Where(`id=?`, string(id)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return chatter.Profile{}, chatter.ErrProfileNotFound
		}
		return chatter.Profile{}, fmt.Errorf("select profile: %w", err)
	}
	return profile.ToDomain(), nil
}

func (s *ProfileStore) ForPredicate(
	ctx context.Context,
	predicate chatter.ProfilePredicate,
) ([]chatter.Profile, error) {
	if predicate == nil {
		return nil, chatter.ErrNilPredicate
	}
	var models []Profile
	err := s.DB.NewSelect().
		Model(&models).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select profiles: %w", err)
	}

	matched := []chatter.Profile{}
	for _, model := range models {
		profile := model.ToDomain()
		if predicate(profile) {
			matched = append(matched, profile)
		}
	}
	return matched, nil
}
