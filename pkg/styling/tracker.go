package styling

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// InsertionTracker remembers which class names have been pushed to a sink.
// A class name is marked only after the sink accepted its rule.
type InsertionTracker struct {
	mu       sync.RWMutex
	inserted map[string]bool

	// concurrent inserts of one class share a single sink call
	flight singleflight.Group
}

// NewInsertionTracker creates an empty tracker
func NewInsertionTracker() *InsertionTracker {
	return &InsertionTracker{
		inserted: make(map[string]bool),
	}
}

// Has reports whether the class name has been inserted
func (t *InsertionTracker) Has(className string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.inserted[className]
}

// Len returns the number of inserted class names
func (t *InsertionTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.inserted)
}

// Mark records class names as inserted without touching a sink, e.g. for
// rules a server-rendered sheet already contains.
func (t *InsertionTracker) Mark(classNames ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, name := range classNames {
		t.inserted[name] = true
	}
}

// EnsureInserted inserts rec into sheet unless its class name is already
// marked. inserted reports whether this call performed the sink insertion;
// callers that joined another caller's in-flight insertion see false. On
// sink failure the class stays unmarked and a *SinkError is returned.
func (t *InsertionTracker) EnsureInserted(rec *RuleRecord, sheet *Sheet) (inserted bool, err error) {
	if sheet == nil {
		return false, &ConfigurationError{What: "no style sheet attached"}
	}
	if t.Has(rec.ClassName) {
		return false, nil
	}

	// only set in the goroutine that runs the flight
	ran := false
	v, err, _ := t.flight.Do(rec.ClassName, func() (any, error) {
		ran = true
		// a flight that finished just before this one started already marked it
		if t.Has(rec.ClassName) {
			return false, nil
		}
		if err := sheet.insert(rec); err != nil {
			return false, &SinkError{ClassName: rec.ClassName, Rule: rec.Rule, Err: err}
		}
		t.mu.Lock()
		t.inserted[rec.ClassName] = true
		t.mu.Unlock()
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return ran && v.(bool), nil
}
