// Package styling turns style objects into atomic, deduplicated CSS rules.
//
// Every declaration in a style object (property, value and optional
// interactive state) becomes one single-property rule with a class name
// derived from the declaration alone:
//
//	obj := styling.MustObject(
//		styling.Decl("color", styling.String("red")),
//		styling.On(styling.StateHover, styling.Decl("color", styling.String("blue"))),
//	)
//	records, err := engine.ComputeRecords(obj)
//	className := styling.ClassNames(records) // "r_xxxx r_yyyy"
//	err = engine.Commit(records, sheet)
//
// ComputeRecords is pure with respect to the style sheet and safe to call on
// every render. Commit is the side-effecting half: it pushes rules that have
// not been inserted yet, and is idempotent.
//
// An Engine owns a RuleCache and an InsertionTracker. Both only grow; rules
// are never removed for the lifetime of the process.
package styling
