package styling

import "iter"

// Triple is one flattened declaration
type Triple struct {
	Property string
	Value    Value
	State    State
}

// Expand flattens obj into triples in declaration order. Declarations of a
// state group are yielded at the group's position, carrying its state.
//
// A malformed entry yields a *SchemaError as the last element.
func Expand(obj Object) iter.Seq2[Triple, error] {
	return func(yield func(Triple, error) bool) {
		for _, e := range obj.entries {
			switch {
			case e.decl != nil:
				if !yield(Triple{Property: e.decl.Property, Value: e.decl.Value}, nil) {
					return
				}

			case e.group != nil:
				if !e.group.State.IsSupported() {
					yield(Triple{}, schemaErrorf(string(e.group.State), "unsupported state"))
					return
				}
				for _, d := range e.group.Declarations {
					if !yield(Triple{Property: d.Property, Value: d.Value, State: e.group.State}, nil) {
						return
					}
				}

			default:
				yield(Triple{}, schemaErrorf("", "empty entry"))
				return
			}
		}
	}
}
