package usestyles

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/recera/vango-styles/pkg/styling"
	"github.com/recera/vango-styles/pkg/styling/sheet"
)

func button(color string) styling.Object {
	return styling.MustObject(
		styling.Decl("color", styling.String(color)),
		styling.Decl("padding", styling.Number(8)),
		styling.On(styling.StateHover, styling.Decl("opacity", styling.Number(0.8))),
	)
}

func TestHook_RenderThenCommit(t *testing.T) {
	s := sheet.NewText()
	p := NewProvider(WithEngine(styling.New()), WithSheet(s))
	h := NewHook(p)

	class, err := h.Render(button("red"), []any{"red"})
	require.NoError(t, err)
	assert.Len(t, strings.Fields(class), 3)
	assert.Equal(t, 0, s.Len(), "render must not touch the sheet")

	require.NoError(t, h.Commit())
	assert.Equal(t, 3, s.Len())

	// a second instance with the same styles adds nothing
	other := NewHook(p)
	class2, err := other.Use(button("red"), []any{"red"})
	require.NoError(t, err)
	assert.Equal(t, class, class2)
	assert.Equal(t, 3, s.Len())
}

func TestHook_MemoizesOnDeps(t *testing.T) {
	e := styling.New()
	p := NewProvider(WithEngine(e))
	h := NewHook(p)

	_, err := h.Render(button("red"), []any{"red", 1})
	require.NoError(t, err)
	first := h.Records()

	// unchanged deps keep the previous result even if obj differs
	_, err = h.Render(button("blue"), []any{"red", 1})
	require.NoError(t, err)
	assert.Equal(t, first, h.Records())
	assert.Equal(t, 3, e.Cache().Len())

	_, err = h.Render(button("blue"), []any{"blue", 1})
	require.NoError(t, err)
	assert.NotEqual(t, first[0].ClassName, h.Records()[0].ClassName)
	assert.Equal(t, 4, e.Cache().Len())
}

func TestHook_EmptyDepsComputeOnce(t *testing.T) {
	p := NewProvider(WithEngine(styling.New()))
	h := NewHook(p)

	a, err := h.Render(button("red"), []any{})
	require.NoError(t, err)
	b, err := h.Render(button("green"), []any{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHook_UncomparableDeps(t *testing.T) {
	p := NewProvider(WithEngine(styling.New()))
	h := NewHook(p)

	a, err := h.Render(button("red"), []any{[]string{"x"}})
	require.NoError(t, err)
	b, err := h.Render(button("green"), []any{[]string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

type themeDep struct {
	Name   string
	Tokens any
}

func TestHook_DepsWithUncomparableFields(t *testing.T) {
	p := NewProvider(WithEngine(styling.New()))
	h := NewHook(p)

	a, err := h.Render(button("red"), []any{themeDep{Name: "dark", Tokens: []int{1}}})
	require.NoError(t, err)

	var b string
	require.NotPanics(t, func() {
		b, err = h.Render(button("green"), []any{themeDep{Name: "dark", Tokens: []int{1}}})
	})
	require.NoError(t, err)
	assert.Equal(t, a, b, "equal deps reuse the memoized result")

	c, err := h.Render(button("green"), []any{themeDep{Name: "dark", Tokens: []int{2}}})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSameDep(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil", nil, nil, true},
		{"nil and value", nil, 1, false},
		{"equal ints", 1, 1, true},
		{"different types", 1, int64(1), false},
		{"equal slices", []string{"x"}, []string{"x"}, true},
		{"struct holding slice", themeDep{Tokens: []int{1}}, themeDep{Tokens: []int{1}}, true},
		{"struct holding different slice", themeDep{Tokens: []int{1}}, themeDep{Tokens: []int{3}}, false},
		{"struct holding string", themeDep{Tokens: "a"}, themeDep{Tokens: "a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sameDep(tt.a, tt.b))
		})
	}
}

func TestHook_WarnsOnceWithoutDeps(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := NewProvider(WithEngine(styling.New()), WithLogger(zap.New(core)))
	h := NewHook(p)

	a, err := h.Render(button("red"), nil)
	require.NoError(t, err)
	b, err := h.Render(button("green"), nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	assert.Equal(t, 1, logs.FilterMessageSnippet("without dependencies").Len())
}

func TestHook_WithoutProvider(t *testing.T) {
	h := HookFromContext(context.Background())

	_, err := h.Render(button("red"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, styling.ErrConfiguration)
	assert.Contains(t, err.Error(), "Provider")
	assert.ErrorIs(t, h.Commit(), styling.ErrConfiguration)
}

func TestProvider_Context(t *testing.T) {
	p := NewProvider(WithEngine(styling.New()))
	ctx := NewContext(context.Background(), p)
	assert.Same(t, p, FromContext(ctx))

	h := HookFromContext(ctx)
	_, err := h.Render(button("red"), []any{})
	assert.NoError(t, err)
}

func TestProvider_AcquiresSheetOnce(t *testing.T) {
	calls := 0
	s := sheet.NewText()
	p := NewProvider(WithEngine(styling.New()), WithSheetSource(func() (styling.Sink, error) {
		calls++
		return s, nil
	}))

	for i := 0; i < 3; i++ {
		_, err := NewHook(p).Use(button("red"), []any{})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, s.Len())
}

func TestProvider_SheetSourceFails(t *testing.T) {
	p := NewProvider(WithEngine(styling.New()), WithSheetSource(func() (styling.Sink, error) {
		return nil, errors.New("no document")
	}))

	_, err := NewHook(p).Use(button("red"), []any{})
	assert.ErrorIs(t, err, styling.ErrConfiguration)
}

func TestProvider_AdoptsServerRenderedRules(t *testing.T) {
	server := NewProvider(WithEngine(styling.New()), WithSheet(sheet.NewText()))
	_, err := NewHook(server).Use(button("red"), []any{})
	require.NoError(t, err)
	ss, err := server.Sheet()
	require.NoError(t, err)
	html := sheet.StyleTag(ss.Sink().(*sheet.Text), "")

	css := strings.TrimSuffix(strings.TrimPrefix(html, `<style id="useStylesStylesheet">`), "</style>")
	existing, err := sheet.Parse(css)
	require.NoError(t, err)
	require.Equal(t, 3, existing.Len())

	client := NewProvider(WithEngine(styling.New()), WithSheet(existing))
	_, err = NewHook(client).Use(button("red"), []any{})
	require.NoError(t, err)
	assert.Equal(t, 3, existing.Len(), "rules from the server are not inserted again")

	_, err = NewHook(client).Use(button("blue"), []any{})
	require.NoError(t, err)
	assert.Equal(t, 4, existing.Len())
}

func TestProvider_OwnCacheAndTracker(t *testing.T) {
	cache := styling.NewRuleCache()
	tracker := styling.NewInsertionTracker()
	a := NewProvider(WithCache(cache), WithTracker(tracker))
	b := NewProvider(WithCache(cache), WithTracker(tracker))
	assert.NotSame(t, styling.Default(), a.Engine())
	assert.Same(t, a.Engine().Cache(), b.Engine().Cache())

	assert.Same(t, styling.Default(), NewProvider().Engine())
}
