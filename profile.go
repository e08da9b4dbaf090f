package chatter

import (
	"context"
	"errors"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrBlankUserId        = errors.New("user id cannot be blank")
	ErrBlankAttributeName = errors.New("attribute name cannot be blank")
	ErrNilPredicate       = errors.New("predicate cannot be nil")
)

type UserId string

// Profile represents a user: an id plus a mutable attribute mapping.
// Two profiles with the same id are the same logical user regardless
// of attribute contents.
type Profile struct {
	Id         UserId
	Attributes map[string]string
}

func NewProfile(id UserId, attributes map[string]string) (Profile, error) {
	if id == "" {
		return Profile{}, ErrBlankUserId
	}
	if attributes == nil {
		attributes = map[string]string{}
	}
	for name := range attributes {
		if name == "" {
			return Profile{}, ErrBlankAttributeName
		}
	}
	return Profile{Id: id, Attributes: attributes}, nil
}

func (p Profile) Attribute(name string) (string, bool) {
	value, ok := p.Attributes[name]
	return value, ok
}

func (p *Profile) SetAttribute(name string, value string) error {
	if name == "" {
		return ErrBlankAttributeName
	}
	if p.Attributes == nil {
		p.Attributes = map[string]string{}
	}
	p.Attributes[name] = value
	return nil
}

// AttributeIntersection returns the attributes present in both profiles
// with equal values.
func (p Profile) AttributeIntersection(other Profile) map[string]string {
	intersection := map[string]string{}
	for name, value := range p.Attributes {
		if otherValue, ok := other.Attributes[name]; ok && otherValue == value {
			intersection[name] = value
		}
	}
	return intersection
}

// Equal reports whether both profiles refer to the same user.
func (p Profile) Equal(other Profile) bool {
	return p.Id == other.Id
}

type ProfilePredicate func(profile Profile) bool

type ProfileStore interface {
	// Write upserts the profile by id.
	Write(ctx context.Context, profile Profile) error

	// Delete removes the profile if present. Absence is not an error.
	Delete(ctx context.Context, id UserId) error

	// ById returns ErrProfileNotFound for an unknown id.
	ById(ctx context.Context, id UserId) (Profile, error)

	// ForPredicate returns all profiles accepted by the predicate,
	// in unspecified order.
	ForPredicate(ctx context.Context, predicate ProfilePredicate) ([]Profile, error)
}
