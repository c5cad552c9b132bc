package styling

import (
	"math"
	"regexp"
	"strings"
)

// propertyPattern accepts camelCase or hyphenated property names, vendor
// prefixed names and custom properties
var propertyPattern = regexp.MustCompile(`^(--[A-Za-z0-9_-]+|-?[A-Za-z][A-Za-z0-9-]*)$`)

// Declaration is a single property/value pair
type Declaration struct {
	Property string
	Value    Value
}

// StateGroup holds declarations that only apply in an interactive state
type StateGroup struct {
	State        State
	Declarations []Declaration
}

// Entry is one key of a style object: either a declaration or a state group
type Entry struct {
	decl  *Declaration
	group *StateGroup

	// nested keeps entries handed to On until NewObject validates them
	nested []Entry
}

// Decl creates a base declaration entry
func Decl(property string, value Value) Entry {
	return Entry{decl: &Declaration{Property: property, Value: value}}
}

// On creates a state group entry. Only declarations may be nested.
func On(state State, entries ...Entry) Entry {
	return Entry{group: &StateGroup{State: state}, nested: entries}
}

// Declaration returns the entry's declaration, if it is one
func (e Entry) Declaration() (Declaration, bool) {
	if e.decl == nil {
		return Declaration{}, false
	}
	return *e.decl, true
}

// StateGroup returns the entry's state group, if it is one
func (e Entry) StateGroup() (StateGroup, bool) {
	if e.group == nil {
		return StateGroup{}, false
	}
	g := *e.group
	g.Declarations = append([]Declaration(nil), e.group.Declarations...)
	return g, true
}

// key identifies the entry within its object. Both spellings of a property
// map to the same key.
func (e Entry) key() string {
	switch {
	case e.decl != nil:
		return Hyphenate(e.decl.Property)
	case e.group != nil:
		return string(e.group.State)
	}
	return ""
}

// Object is an ordered style object. Entries keep their declaration order,
// which is the order class names are produced in.
type Object struct {
	entries []Entry
}

// NewObject validates entries and builds a style object
func NewObject(entries ...Entry) (Object, error) {
	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))

	for _, e := range entries {
		switch {
		case e.decl != nil:
			if err := validateDeclaration(*e.decl, e.decl.Property); err != nil {
				return Object{}, err
			}
			out = append(out, Entry{decl: e.decl})

		case e.group != nil:
			g, err := buildGroup(e)
			if err != nil {
				return Object{}, err
			}
			out = append(out, Entry{group: g})

		default:
			return Object{}, schemaErrorf("", "empty entry")
		}

		k := out[len(out)-1].key()
		if seen[k] {
			return Object{}, schemaErrorf(k, "duplicate key")
		}
		seen[k] = true
	}

	return Object{entries: out}, nil
}

// MustObject is like NewObject but panics on a malformed object.
// Intended for package-level style definitions.
func MustObject(entries ...Entry) Object {
	obj, err := NewObject(entries...)
	if err != nil {
		panic(err)
	}
	return obj
}

func buildGroup(e Entry) (*StateGroup, error) {
	state := e.group.State
	if !state.IsSupported() {
		return nil, schemaErrorf(string(state), "unsupported state")
	}

	g := &StateGroup{State: state}
	seen := make(map[string]bool, len(e.nested))
	for _, n := range e.nested {
		if n.decl == nil {
			return nil, schemaErrorf(string(state)+"."+n.key(), "only declarations may be nested under a state")
		}
		path := string(state) + "." + n.decl.Property
		if err := validateDeclaration(*n.decl, path); err != nil {
			return nil, err
		}
		if seen[Hyphenate(n.decl.Property)] {
			return nil, schemaErrorf(path, "duplicate key")
		}
		seen[Hyphenate(n.decl.Property)] = true
		g.Declarations = append(g.Declarations, *n.decl)
	}
	return g, nil
}

func validateDeclaration(d Declaration, path string) error {
	if err := validateProperty(d.Property, path); err != nil {
		return err
	}
	if f, ok := d.Value.Float(); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return schemaErrorf(path, "number %v has no CSS form", f)
	}
	return nil
}

func validateProperty(property, path string) error {
	if strings.HasPrefix(property, ":") {
		return schemaErrorf(path, "unsupported state")
	}
	if !propertyPattern.MatchString(property) {
		return schemaErrorf(path, "invalid property name")
	}
	return nil
}

// Len returns the number of top-level entries
func (o Object) Len() int {
	return len(o.entries)
}

// Entries returns a copy of the top-level entries in declaration order
func (o Object) Entries() []Entry {
	return append([]Entry(nil), o.entries...)
}
