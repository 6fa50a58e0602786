// Package topic defines hierarchical event topics with wildcard matching.
package topic

import "strings"

// Topic represents a hierarchical event type using dot notation.
// Examples: "host.changed", "contained.reanalyzed"
type Topic string

// Wildcard constants for pattern matching.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more segments.
	WildcardMulti = "**"

	// Separator is the character used to separate topic segments.
	Separator = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// IsWildcard returns true if the topic contains any wildcard characters.
func (t Topic) IsWildcard() bool {
	return strings.Contains(string(t), WildcardSingle)
}

// IsValid returns true if the topic is valid.
// A valid topic is non-empty, does not start or end with a separator, and
// contains no empty segments.
func (t Topic) IsValid() bool {
	s := string(t)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, Separator) || strings.HasSuffix(s, Separator) {
		return false
	}
	return !strings.Contains(s, Separator+Separator)
}

// Matches returns true if this topic matches the given pattern.
// The pattern may contain wildcards:
//   - "*" matches exactly one segment
//   - "**" matches zero or more segments
func (t Topic) Matches(pattern Topic) bool {
	return matchSegments(t.Segments(), pattern.Segments())
}

// matchSegments matches topic segments against pattern segments.
//
// "**" is matched greedily with a single backtrack point: when a later
// segment mismatches, the most recent "**" absorbs one more topic segment
// and matching resumes after it. Backtracking only to the last "**" is
// sufficient because an earlier "**" absorbing more segments can never
// succeed where the later one failed.
func matchSegments(topic, pattern []string) bool {
	ti, pi := 0, 0
	backPi, backTi := -1, 0

	for ti < len(topic) {
		switch {
		case pi < len(pattern) && pattern[pi] == WildcardMulti:
			backPi, backTi = pi, ti
			pi++
		case pi < len(pattern) && (pattern[pi] == WildcardSingle || pattern[pi] == topic[ti]):
			ti++
			pi++
		case backPi >= 0:
			backTi++
			ti = backTi
			pi = backPi + 1
		default:
			return false
		}
	}

	// Trailing "**" segments match zero segments.
	for pi < len(pattern) && pattern[pi] == WildcardMulti {
		pi++
	}
	return pi == len(pattern)
}

// Join joins multiple segments into a topic.
func Join(segments ...string) Topic {
	return Topic(strings.Join(segments, Separator))
}
