package sheet

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"go.uber.org/zap"

	"github.com/recera/vango-styles/pkg/styling"
)

// Typed is a sheet of structured rules. The engine inserts an empty rule per
// class and sets its property directly, without formatting declaration text.
type Typed struct {
	mu    sync.RWMutex
	sheet *css.Stylesheet
	opts  options
}

var _ styling.TypedSink = (*Typed)(nil)

// NewTyped creates an empty typed sheet
func NewTyped(opts ...Option) *Typed {
	return &Typed{
		sheet: css.NewStylesheet(),
		opts:  newOptions("typed-sheet", opts),
	}
}

// Mode reports typed insertion
func (t *Typed) Mode() styling.Mode {
	return styling.ModeTyped
}

// InsertRule parses rule and appends it. The handle is the *css.Rule.
func (t *Typed) InsertRule(rule string) (styling.RuleHandle, error) {
	if t.opts.validate {
		if err := ValidateRule(rule); err != nil {
			t.opts.log.Debug("Rejected rule", zap.String("rule", rule), zap.Error(err))
			return nil, err
		}
	}

	parsed, err := parser.Parse(rule)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	if len(parsed.Rules) != 1 || parsed.Rules[0].Kind != css.QualifiedRule {
		return nil, fmt.Errorf("%w: want one ruleset, got %d rules", ErrInvalidRule, len(parsed.Rules))
	}

	r := parsed.Rules[0]
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sheet.Rules = append(t.sheet.Rules, r)
	return r, nil
}

// SetProperty sets property on a rule returned by InsertRule, replacing an
// earlier value of the same property
func (t *Typed) SetProperty(h styling.RuleHandle, property, value string) error {
	r, ok := h.(*css.Rule)
	if !ok || r == nil {
		return fmt.Errorf("%w: foreign rule handle %T", ErrInvalidRule, h)
	}
	if strings.ContainsAny(value, ";{}") {
		return fmt.Errorf("%w: value %q of %s", ErrInvalidRule, value, property)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, d := range r.Declarations {
		if d.Property == property {
			d.Value = value
			return nil
		}
	}
	d := css.NewDeclaration()
	d.Property = property
	d.Value = value
	r.Declarations = append(r.Declarations, d)
	return nil
}

// Len returns the number of rules
func (t *Typed) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sheet.Rules)
}

// Rules renders each rule on a single line, in insertion order
func (t *Typed) Rules() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.sheet.Rules))
	for _, r := range t.sheet.Rules {
		out = append(out, oneLine(r))
	}
	return out
}

// Lookup returns the value of property in the first rule whose selector is
// selector
func (t *Typed) Lookup(selector, property string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, r := range t.sheet.Rules {
		if r.Prelude != selector {
			continue
		}
		for _, d := range r.Declarations {
			if d.Property == property {
				return d.Value, true
			}
		}
	}
	return "", false
}

// CSS returns the sheet as one rule per line
func (t *Typed) CSS() string {
	var b strings.Builder
	for _, r := range t.Rules() {
		b.WriteString(r)
		b.WriteByte('\n')
	}
	return b.String()
}

// ClassNames returns the generated class names the sheet's selectors use
func (t *Typed) ClassNames() []string {
	return classNamesIn(t.Rules())
}

func oneLine(r *css.Rule) string {
	if len(r.Declarations) == 0 {
		return r.Prelude + " {}"
	}
	var b strings.Builder
	b.WriteString(r.Prelude)
	b.WriteString(" {")
	for _, d := range r.Declarations {
		b.WriteByte(' ')
		b.WriteString(d.String())
	}
	b.WriteString(" }")
	return b.String()
}
