package styling

import (
	"strings"
	"unicode"
)

// DefaultUnit is appended to non-zero numbers on unit-bearing properties
const DefaultUnit = "px"

// unitlessProperties never receive a unit suffix. Keyed by hyphenated name.
var unitlessProperties = map[string]bool{
	"animation-iteration-count": true,
	"aspect-ratio":              true,
	"border-image-outset":       true,
	"border-image-slice":        true,
	"border-image-width":        true,
	"box-flex":                  true,
	"box-flex-group":            true,
	"box-ordinal-group":         true,
	"column-count":              true,
	"columns":                   true,
	"fill-opacity":              true,
	"flex":                      true,
	"flex-grow":                 true,
	"flex-negative":             true,
	"flex-order":                true,
	"flex-positive":             true,
	"flex-shrink":               true,
	"flood-opacity":             true,
	"font-weight":               true,
	"grid-area":                 true,
	"grid-column":               true,
	"grid-column-end":           true,
	"grid-column-span":          true,
	"grid-column-start":         true,
	"grid-row":                  true,
	"grid-row-end":              true,
	"grid-row-span":             true,
	"grid-row-start":            true,
	"line-clamp":                true,
	"line-height":               true,
	"opacity":                   true,
	"order":                     true,
	"orphans":                   true,
	"scale":                     true,
	"stop-opacity":              true,
	"stroke-dasharray":          true,
	"stroke-dashoffset":         true,
	"stroke-miterlimit":         true,
	"stroke-opacity":            true,
	"stroke-width":              true,
	"tab-size":                  true,
	"widows":                    true,
	"z-index":                   true,
	"zoom":                      true,
}

// IsUnitless reports whether property takes bare numbers by default.
// Custom properties are always unitless.
func IsUnitless(property string) bool {
	if strings.HasPrefix(property, "--") {
		return true
	}
	name := Hyphenate(property)
	if unitlessProperties[name] {
		return true
	}
	// vendor prefixed variants share the rules of the plain property
	if strings.HasPrefix(name, "-") {
		if i := strings.IndexByte(name[1:], '-'); i >= 0 {
			return unitlessProperties[name[i+2:]]
		}
	}
	return false
}

// Hyphenate converts a camelCase property name to its CSS form:
// backgroundColor -> background-color, msTransition -> -ms-transition.
// Custom properties and already hyphenated names are returned as is.
func Hyphenate(property string) string {
	if strings.HasPrefix(property, "--") {
		return property
	}

	var b strings.Builder
	b.Grow(len(property) + 4)
	for _, r := range property {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	name := b.String()
	if strings.HasPrefix(name, "ms-") {
		name = "-" + name
	}
	return name
}

// Units holds the unit normalization rules of an engine
type Units struct {
	defaultUnit string
	unitless    map[string]bool
}

// NewUnits returns unit rules with the built-in unitless table plus extra
// properties (camelCase or hyphenated)
func NewUnits(extraUnitless ...string) *Units {
	u := &Units{defaultUnit: DefaultUnit}
	if len(extraUnitless) > 0 {
		u.unitless = make(map[string]bool, len(extraUnitless))
		for _, p := range extraUnitless {
			u.unitless[Hyphenate(p)] = true
		}
	}
	return u
}

// IsUnitless reports whether property never receives a unit under these rules
func (u *Units) IsUnitless(property string) bool {
	if u != nil && u.unitless[Hyphenate(property)] {
		return true
	}
	return IsUnitless(property)
}

// Normalize renders a value as it appears in a rule body
func (u *Units) Normalize(property string, v Value) string {
	if !v.IsNumber() || v.IsZero() || u.IsUnitless(property) {
		return v.String()
	}
	unit := DefaultUnit
	if u != nil && u.defaultUnit != "" {
		unit = u.defaultUnit
	}
	return v.String() + unit
}
