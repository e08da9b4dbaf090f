package chatter

import "errors"

var ErrThresholdOutOfRange = errors.New("match threshold must be in the range [0,1]")

// UserMatcher decides whether the candidate user is relevant to the
// primary user. The relation may be asymmetric.
type UserMatcher interface {
	Matches(primary Profile, candidate Profile) bool
}

type UserMatcherFunc func(primary Profile, candidate Profile) bool

func (f UserMatcherFunc) Matches(primary Profile, candidate Profile) bool {
	return f(primary, candidate)
}

// PercentMatcher matches users whose shared attribute ratio, measured
// against the primary user's attribute count, meets a threshold.
type PercentMatcher struct {
	threshold float64
}

func NewPercentMatcher(threshold float64) (PercentMatcher, error) {
	if threshold < 0 || threshold > 1 {
		return PercentMatcher{}, ErrThresholdOutOfRange
	}
	return PercentMatcher{threshold: threshold}, nil
}

var _ UserMatcher = PercentMatcher{}

// Matches reports whether the candidate shares at least threshold of the
// primary's attributes, where an attribute is shared only when both key
// and value are equal. A primary with no attributes matches nothing,
// unless the threshold is 0, which matches everything.
func (m PercentMatcher) Matches(primary Profile, candidate Profile) bool {
	if len(primary.Attributes) == 0 {
		return m.threshold == 0
	}
	shared := len(primary.AttributeIntersection(candidate))
	return float64(shared)/float64(len(primary.Attributes)) >= m.threshold
}
