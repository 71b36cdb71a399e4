package types

import (
	"sort"
	"strings"
)

type (
	// EffectTag names one side effect a host function declares. The core
	// never interprets tags; the host's effector decides what each means.
	EffectTag string
	// EffectSet is an unordered set of effect tags. The checker folds the
	// declared effects of every called function into one set per script.
	EffectSet map[EffectTag]struct{}
)

// Effects builds a set from tags.
func Effects(tags ...EffectTag) EffectSet {
	set := EffectSet{}
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
	return set
}

// Add inserts a tag into the set.
func (s EffectSet) Add(tag EffectTag) { s[tag] = struct{}{} }

// Union inserts every tag of other into the set.
func (s EffectSet) Union(other EffectSet) {
	for tag := range other {
		s[tag] = struct{}{}
	}
}

// Has reports whether the tag is in the set.
func (s EffectSet) Has(tag EffectTag) bool {
	_, ok := s[tag]
	return ok
}

// Len returns the number of tags in the set.
func (s EffectSet) Len() int { return len(s) }

// Slice returns the tags in sorted order.
func (s EffectSet) Slice() []EffectTag {
	tags := make([]EffectTag, 0, len(s))
	for tag := range s {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Equal reports whether both sets hold exactly the same tags.
func (s EffectSet) Equal(other EffectSet) bool {
	if len(s) != len(other) {
		return false
	}
	for tag := range s {
		if !other.Has(tag) {
			return false
		}
	}
	return true
}

func (s EffectSet) String() string {
	parts := make([]string, 0, len(s))
	for _, tag := range s.Slice() {
		parts = append(parts, string(tag))
	}
	return "{" + strings.Join(parts, " ") + "}"
}
