package usestyles

import (
	"context"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/recera/vango-styles/pkg/styling"
)

var errNoProvider = &styling.ConfigurationError{
	What: "no provider: please ensure hooks are created within a usestyles Provider",
}

// Hook computes and commits the styles of one component instance
type Hook struct {
	provider *Provider

	mu        sync.Mutex
	deps      []any
	memoized  bool
	records   []*styling.RuleRecord
	className string
	warned    bool
}

// NewHook creates a hook bound to p
func NewHook(p *Provider) *Hook {
	return &Hook{provider: p}
}

// HookFromContext creates a hook bound to the provider carried by ctx
func HookFromContext(ctx context.Context) *Hook {
	return NewHook(FromContext(ctx))
}

// Render returns the class names for obj. It is pure with respect to the
// style sheet. With deps the result is reused until deps change; an empty,
// non-nil deps computes once. A nil deps recomputes on every call.
func (h *Hook) Render(obj styling.Object, deps []any) (string, error) {
	if h == nil || h.provider == nil {
		return "", errNoProvider
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if deps == nil {
		if !h.warned {
			h.warned = true
			h.provider.log.Warn("Render called without dependencies, styles are recomputed on every render")
		}
	} else if h.memoized && sameDeps(h.deps, deps) {
		return h.className, nil
	}

	records, err := h.provider.engine.ComputeRecords(obj)
	if err != nil {
		return "", err
	}
	h.records = records
	h.className = styling.ClassNames(records)
	h.memoized = deps != nil
	h.deps = append(h.deps[:0], deps...)
	return h.className, nil
}

// Commit inserts the rules of the last render. Call it after the rendered
// output has been committed.
func (h *Hook) Commit() error {
	if h == nil || h.provider == nil {
		return errNoProvider
	}

	h.mu.Lock()
	records := h.records
	h.mu.Unlock()

	if err := h.provider.Commit(records); err != nil {
		h.provider.log.Debug("Commit failed", zap.Int("records", len(records)), zap.Error(err))
		return err
	}
	return nil
}

// Use is Render followed by Commit, for callers without a separate commit
// phase
func (h *Hook) Use(obj styling.Object, deps []any) (string, error) {
	className, err := h.Render(obj, deps)
	if err != nil {
		return "", err
	}
	return className, h.Commit()
}

// Records returns the records of the last render
func (h *Hook) Records() []*styling.RuleRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.records
}

func sameDeps(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameDep(a[i], b[i]) {
			return false
		}
	}
	return true
}

// sameDep compares with == when the dynamic values allow it and falls back
// to deep equality otherwise, e.g. for slices or for structs whose interface
// fields hold slices
func sameDep(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
