package styling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	key, normalized := Canonicalize("width", Number(10), StateNone)
	assert.Equal(t, CanonicalKey("width|10px|"), key)
	assert.Equal(t, "10px", normalized)

	key, _ = Canonicalize("color", String("blue"), StateHover)
	assert.Equal(t, CanonicalKey("color|blue|:hover"), key)
}

func TestCanonicalize_EquivalentValuesShareKey(t *testing.T) {
	a, _ := Canonicalize("width", Number(10), StateNone)
	b, _ := Canonicalize("width", String("10px"), StateNone)
	assert.Equal(t, a, b)
}

func TestCanonicalize_PropertySpellingsShareKey(t *testing.T) {
	a, _ := Canonicalize("backgroundColor", String("red"), StateNone)
	b, _ := Canonicalize("background-color", String("red"), StateNone)
	assert.Equal(t, CanonicalKey("background-color|red|"), a)
	assert.Equal(t, a, b)

	c, _ := Canonicalize("--brandColor", String("red"), StateNone)
	assert.Equal(t, CanonicalKey("--brandColor|red|"), c)
}

func TestCanonicalize_NoSeparatorAmbiguity(t *testing.T) {
	// values may contain the separator, properties and states may not
	tricky := []Triple{
		{Property: "content", Value: String("a|b"), State: StateNone},
		{Property: "content", Value: String("a"), State: State("b")},
		{Property: "content", Value: String("a|"), State: StateHover},
		{Property: "content", Value: String("a"), State: StateHover},
		{Property: "content", Value: String("|:hover"), State: StateNone},
		{Property: "content", Value: String(""), State: StateHover},
	}

	seen := make(map[CanonicalKey]Triple)
	for _, tr := range tricky {
		key, _ := Canonicalize(tr.Property, tr.Value, tr.State)
		if prev, ok := seen[key]; ok {
			t.Fatalf("key %q produced by both %+v and %+v", key, prev, tr)
		}
		seen[key] = tr

		prop, val, state := key.Split()
		assert.Equal(t, tr.Property, prop)
		assert.Equal(t, tr.Value.String(), val)
		assert.Equal(t, tr.State, state)
	}
}

func TestHash_Deterministic(t *testing.T) {
	triples := []Triple{
		{"color", String("red"), StateNone},
		{"color", String("red"), StateHover},
		{"padding", Number(4), StateFocusWithin},
		{"--x", String("|||"), StateNone},
	}

	for _, tr := range triples {
		k1, _ := Canonicalize(tr.Property, tr.Value, tr.State)
		k2, _ := Canonicalize(tr.Property, tr.Value, tr.State)
		assert.Equal(t, Hash(k1), Hash(k2))
	}
}

func TestHash_Shape(t *testing.T) {
	name := Hash("color|red|")
	require.True(t, strings.HasPrefix(name, ClassPrefix), name)

	token := strings.TrimPrefix(name, ClassPrefix)
	assert.NotEmpty(t, token)
	assert.LessOrEqual(t, len(token), 13)
	for _, r := range token {
		assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z'), "unexpected rune %q in %s", r, name)
	}
}

func TestHash_DistinctForStates(t *testing.T) {
	base, _ := Canonicalize("color", String("blue"), StateNone)
	hover, _ := Canonicalize("color", String("blue"), StateHover)
	assert.NotEqual(t, Hash(base), Hash(hover))
}
