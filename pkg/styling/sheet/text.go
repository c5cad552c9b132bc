// Package sheet provides in-memory style sheets the styling engine can
// commit to, and renders them for server-side output.
package sheet

import (
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/recera/vango-styles/pkg/styling"
)

// Option configures a sheet
type Option func(*options)

type options struct {
	log      *zap.Logger
	validate bool
}

// WithLogger sets the sheet's logger
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithValidation turns rule validation on or off. It is on by default.
func WithValidation(on bool) Option {
	return func(o *options) {
		o.validate = on
	}
}

func newOptions(name string, opts []Option) options {
	o := options{log: zap.NewNop(), validate: true}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = o.log.Named(name)
	return o
}

// Text is a sheet that stores rule text in insertion order
type Text struct {
	mu    sync.RWMutex
	rules []string
	opts  options
}

var _ styling.Sink = (*Text)(nil)

// NewText creates an empty text sheet
func NewText(opts ...Option) *Text {
	return &Text{opts: newOptions("sheet", opts)}
}

// InsertRule appends rule to the sheet. The handle is the rule's index.
func (t *Text) InsertRule(rule string) (styling.RuleHandle, error) {
	if t.opts.validate {
		if err := ValidateRule(rule); err != nil {
			t.opts.log.Debug("Rejected rule", zap.String("rule", rule), zap.Error(err))
			return nil, err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rules = append(t.rules, rule)
	return len(t.rules) - 1, nil
}

// Len returns the number of rules
func (t *Text) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rules)
}

// Rules returns a copy of the rules in insertion order
func (t *Text) Rules() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.rules...)
}

// Since returns the rules inserted after the first n
func (t *Text) Since(n int) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	if n >= len(t.rules) {
		return nil
	}
	return append([]string(nil), t.rules[n:]...)
}

// CSS returns the sheet as one rule per line
func (t *Text) CSS() string {
	var b strings.Builder
	_, _ = t.WriteTo(&b)
	return b.String()
}

// WriteTo writes the sheet to w, one rule per line
func (t *Text) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, rule := range t.Rules() {
		n, err := io.WriteString(w, rule+"\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ClassNames returns the generated class names the sheet's selectors use,
// in order of first appearance
func (t *Text) ClassNames() []string {
	return classNamesIn(t.Rules())
}

func classNamesIn(rules []string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, rule := range rules {
		for _, name := range selectorClasses(rule) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// selectorClasses extracts ".r_xxx" class names from the selector part of a
// rule
func selectorClasses(rule string) []string {
	sel := rule
	if i := strings.IndexByte(sel, '{'); i >= 0 {
		sel = sel[:i]
	}

	var names []string
	for {
		i := strings.Index(sel, "."+styling.ClassPrefix)
		if i < 0 {
			return names
		}
		sel = sel[i+1:]
		end := strings.IndexFunc(sel, func(r rune) bool {
			return !(r == '_' || r == '-' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'))
		})
		if end < 0 {
			end = len(sel)
		}
		names = append(names, sel[:end])
		sel = sel[end:]
	}
}
