package styling

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObject(t *testing.T) {
	obj, err := NewObject(
		Decl("color", String("red")),
		On(StateHover, Decl("color", String("blue"))),
		Decl("--accent", String("#09f")),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, obj.Len())

	entries := obj.Entries()
	d, ok := entries[0].Declaration()
	require.True(t, ok)
	assert.Equal(t, "color", d.Property)

	g, ok := entries[1].StateGroup()
	require.True(t, ok)
	assert.Equal(t, StateHover, g.State)
	assert.Len(t, g.Declarations, 1)

	_, ok = entries[1].Declaration()
	assert.False(t, ok)
}

func TestNewObject_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"unsupported state", []Entry{On(State(":active"), Decl("color", String("red")))}},
		{"nested group", []Entry{On(StateHover, On(StateFocus, Decl("color", String("red"))))}},
		{"zero entry", []Entry{{}}},
		{"empty property", []Entry{Decl("", String("red"))}},
		{"separator in property", []Entry{Decl("co|lor", String("red"))}},
		{"state as property", []Entry{Decl(":hover", String("red"))}},
		{"duplicate property", []Entry{Decl("color", String("red")), Decl("color", String("blue"))}},
		{"duplicate across spellings", []Entry{Decl("backgroundColor", String("red")), Decl("background-color", String("blue"))}},
		{"duplicate across spellings in state", []Entry{
			On(StateHover, Decl("zIndex", Number(1)), Decl("z-index", Number(2))),
		}},
		{"infinite number", []Entry{Decl("width", Number(math.Inf(1)))}},
		{"negative infinite number", []Entry{On(StateFocus, Decl("width", Number(math.Inf(-1))))}},
		{"NaN", []Entry{Decl("opacity", Number(math.NaN()))}},
		{"duplicate state", []Entry{
			On(StateHover, Decl("color", String("red"))),
			On(StateHover, Decl("opacity", Number(1))),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewObject(tt.entries...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchema), "got %v", err)
		})
	}
}

func TestMustObject_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustObject(Decl("bad key", String("x")))
	})
}

func TestExpand_Order(t *testing.T) {
	obj := MustObject(
		Decl("color", String("red")),
		On(StateHover, Decl("color", String("blue")), Decl("opacity", Number(0.8))),
		Decl("margin", Number(0)),
		On(StateFocusVisible, Decl("outlineWidth", Number(2))),
	)

	assert.Equal(t, []Triple{
		{"color", String("red"), StateNone},
		{"color", String("blue"), StateHover},
		{"opacity", Number(0.8), StateHover},
		{"margin", Number(0), StateNone},
		{"outlineWidth", Number(2), StateFocusVisible},
	}, triples(t, obj))
}

func TestExpand_StopsEarly(t *testing.T) {
	obj := MustObject(
		Decl("a", Number(1)),
		Decl("b", Number(2)),
		Decl("c", Number(3)),
	)

	var seen []string
	for tr := range Expand(obj) {
		seen = append(seen, tr.Property)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestExpand_MalformedEntry(t *testing.T) {
	obj := Object{entries: []Entry{Decl("color", String("red")), {}}}

	var got []Triple
	var gotErr error
	for tr, err := range Expand(obj) {
		if err != nil {
			gotErr = err
			break
		}
		got = append(got, tr)
	}
	assert.Len(t, got, 1)
	assert.ErrorIs(t, gotErr, ErrSchema)
}
