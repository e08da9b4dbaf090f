package chatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPercentMatcherThreshold(t *testing.T) {
	assert := assert.New(t)

	_, err := NewPercentMatcher(-0.01)
	assert.Equal(ErrThresholdOutOfRange, err)

	_, err = NewPercentMatcher(1.01)
	assert.Equal(ErrThresholdOutOfRange, err)

	_, err = NewPercentMatcher(0)
	assert.NoError(err)

	_, err = NewPercentMatcher(1)
	assert.NoError(err)
}

func TestPercentMatcherMatches(t *testing.T) {
	assert := assert.New(t)

	matcher, err := NewPercentMatcher(0.5)
	if !assert.NoError(err) {
		return
	}

	alice := Profile{Id: "alice", Attributes: map[string]string{
		"profession": "dev",
		"hobby":      "reading",
		"location":   "NY",
	}}
	bob := Profile{Id: "bob", Attributes: map[string]string{
		"profession": "dev",
		"hobby":      "reading",
	}}
	carol := Profile{Id: "carol", Attributes: map[string]string{
		"profession": "dev",
		"hobby":      "chess",
		"location":   "LA",
	}}

	// 2 of 3 shared (0.667) meets the 0.5 threshold
	assert.True(matcher.Matches(alice, bob))
	// 1 of 3 shared (0.333) does not
	assert.False(matcher.Matches(alice, carol))
}

func TestPercentMatcherBoundary(t *testing.T) {
	assert := assert.New(t)

	matcher, err := NewPercentMatcher(0.5)
	if !assert.NoError(err) {
		return
	}

	primary := Profile{Id: "p", Attributes: map[string]string{
		"a": "1", "b": "2", "c": "3", "d": "4",
	}}
	exactlyHalf := Profile{Id: "half", Attributes: map[string]string{
		"a": "1", "b": "2",
	}}
	oneFewer := Profile{Id: "fewer", Attributes: map[string]string{
		"a": "1",
	}}

	assert.True(matcher.Matches(primary, exactlyHalf))
	assert.False(matcher.Matches(primary, oneFewer))
}

func TestPercentMatcherAsymmetry(t *testing.T) {
	assert := assert.New(t)

	matcher, err := NewPercentMatcher(0.75)
	if !assert.NoError(err) {
		return
	}

	narrow := Profile{Id: "narrow", Attributes: map[string]string{"profession": "dev"}}
	broad := Profile{Id: "broad", Attributes: map[string]string{
		"profession": "dev",
		"hobby":      "reading",
		"location":   "NY",
		"team":       "backend",
	}}

	// the denominator is always the primary's attribute count
	assert.True(matcher.Matches(narrow, broad))
	assert.False(matcher.Matches(broad, narrow))
}

func TestPercentMatcherEmptyPrimary(t *testing.T) {
	assert := assert.New(t)

	empty := Profile{Id: "empty", Attributes: map[string]string{}}
	candidate := Profile{Id: "c", Attributes: map[string]string{"hobby": "reading"}}

	strict, err := NewPercentMatcher(0.5)
	if !assert.NoError(err) {
		return
	}
	assert.False(strict.Matches(empty, candidate))

	open, err := NewPercentMatcher(0)
	if !assert.NoError(err) {
		return
	}
	assert.True(open.Matches(empty, candidate))
}

func TestUserMatcherFunc(t *testing.T) {
	assert := assert.New(t)

	var matcher UserMatcher = UserMatcherFunc(func(primary, candidate Profile) bool {
		return primary.Id == candidate.Id
	})
	assert.True(matcher.Matches(Profile{Id: "x"}, Profile{Id: "x"}))
	assert.False(matcher.Matches(Profile{Id: "x"}, Profile{Id: "y"}))
}
