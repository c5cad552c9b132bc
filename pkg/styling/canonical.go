package styling

import "strings"

// keySeparator cannot occur in a valid property name or state name. With the
// property first and the state last, a key splits unambiguously even when
// the value contains the separator.
const keySeparator = "|"

// CanonicalKey identifies one normalized (property, value, state) declaration
type CanonicalKey string

// Canonicalize builds the canonical key of a declaration and returns the
// normalized value that goes into the rule body. The key holds the hyphenated
// property, so backgroundColor and background-color share one key.
func (u *Units) Canonicalize(property string, value Value, state State) (CanonicalKey, string) {
	normalized := u.Normalize(property, value)
	property = Hyphenate(property)

	var b strings.Builder
	b.Grow(len(property) + len(normalized) + len(state) + 2)
	b.WriteString(property)
	b.WriteString(keySeparator)
	b.WriteString(normalized)
	b.WriteString(keySeparator)
	b.WriteString(string(state))
	return CanonicalKey(b.String()), normalized
}

// Canonicalize uses the default unit rules. See Units.Canonicalize.
func Canonicalize(property string, value Value, state State) (CanonicalKey, string) {
	return defaultUnits.Canonicalize(property, value, state)
}

var defaultUnits = NewUnits()

// Split recovers the hyphenated property, normalized value and state from a key
func (k CanonicalKey) Split() (property, value string, state State) {
	s := string(k)
	first := strings.Index(s, keySeparator)
	last := strings.LastIndex(s, keySeparator)
	if first < 0 || first == last {
		return s, "", StateNone
	}
	return s[:first], s[first+1 : last], State(s[last+1:])
}
