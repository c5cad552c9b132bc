package styling

import "strings"

// RuleRecord is the materialized form of one declaration. Records are
// created once per canonical key and never change afterwards.
type RuleRecord struct {
	Key       CanonicalKey
	ClassName string

	// Rule is the complete text-mode rule,
	// e.g. ".r_1x2y:hover { background-color: blue; }"
	Rule string

	Property string // as declared, e.g. "backgroundColor"
	CSSName  string // hyphenated, e.g. "background-color"
	Value    string // normalized, e.g. "12px"
	State    State
}

// Selector returns the rule's selector including the state suffix
func (r *RuleRecord) Selector() string {
	return "." + r.ClassName + r.State.Suffix()
}

func newRecord(key CanonicalKey, property, normalized string, state State) *RuleRecord {
	rec := &RuleRecord{
		Key:       key,
		ClassName: Hash(key),
		Property:  property,
		CSSName:   Hyphenate(property),
		Value:     normalized,
		State:     state,
	}
	rec.Rule = RuleText(rec.Selector(), rec.CSSName, rec.Value)
	return rec
}

// RuleText formats a single-declaration rule
func RuleText(selector, property, value string) string {
	var b strings.Builder
	b.Grow(len(selector) + len(property) + len(value) + 8)
	b.WriteString(selector)
	b.WriteString(" { ")
	b.WriteString(property)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("; }")
	return b.String()
}

// ClassNames joins the class names of records with single spaces, in order
func ClassNames(records []*RuleRecord) string {
	switch len(records) {
	case 0:
		return ""
	case 1:
		return records[0].ClassName
	}

	n := len(records) - 1
	for _, r := range records {
		n += len(r.ClassName)
	}
	var b strings.Builder
	b.Grow(n)
	for i, r := range records {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.ClassName)
	}
	return b.String()
}
