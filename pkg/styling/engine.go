package styling

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Engine turns style objects into records and commits them to sheets. An
// engine owns its cache and tracker; two engines share nothing unless they
// were given the same cache or tracker.
type Engine struct {
	cache    *RuleCache
	tracker  *InsertionTracker
	units    *Units
	log      *zap.Logger
	observer Observer
}

// Option configures an Engine
type Option func(*Engine)

// WithCache makes the engine use an externally owned rule cache
func WithCache(c *RuleCache) Option {
	return func(e *Engine) {
		if c != nil {
			e.cache = c
		}
	}
}

// WithTracker makes the engine use an externally owned insertion tracker
func WithTracker(t *InsertionTracker) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracker = t
		}
	}
}

// WithUnits replaces the unit normalization rules
func WithUnits(u *Units) Option {
	return func(e *Engine) {
		if u != nil {
			e.units = u
		}
	}
}

// WithLogger sets the engine's logger
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log.Named("styling")
		}
	}
}

// WithObserver registers an observer for engine events
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// New creates an engine with a fresh cache and tracker unless options
// supply them
func New(opts ...Option) *Engine {
	e := &Engine{
		units:    defaultUnits,
		log:      zap.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = NewRuleCache()
	}
	if e.tracker == nil {
		e.tracker = NewInsertionTracker()
	}
	return e
}

var (
	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// Default returns the process-wide engine. Only the outermost composition
// point of a program should reach for it; everything else takes an *Engine.
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = New()
	})
	return defaultEngine
}

// Cache returns the engine's rule cache
func (e *Engine) Cache() *RuleCache {
	return e.cache
}

// Tracker returns the engine's insertion tracker
func (e *Engine) Tracker() *InsertionTracker {
	return e.tracker
}

// ComputeRecords resolves every declaration of obj to its cached record, in
// declaration order. It never touches a sink.
func (e *Engine) ComputeRecords(obj Object) ([]*RuleRecord, error) {
	if e == nil {
		return nil, &ConfigurationError{What: "no engine configured"}
	}

	records := make([]*RuleRecord, 0, obj.Len())
	for t, err := range Expand(obj) {
		if err != nil {
			return nil, err
		}

		key, normalized := e.units.Canonicalize(t.Property, t.Value, t.State)
		rec, created := e.cache.GetOrCreate(key, func() *RuleRecord {
			return newRecord(key, t.Property, normalized, t.State)
		})
		if created {
			e.log.Debug("New rule", zap.String("class", rec.ClassName), zap.String("rule", rec.Rule))
		}
		e.observer.RecordComputed(rec, created)
		records = append(records, rec)
	}
	return records, nil
}

// ClassNames joins the class names of records. See the package function.
func (e *Engine) ClassNames(records []*RuleRecord) string {
	return ClassNames(records)
}

// Compute is ComputeRecords followed by ClassNames
func (e *Engine) Compute(obj Object) ([]*RuleRecord, string, error) {
	records, err := e.ComputeRecords(obj)
	if err != nil {
		return nil, "", err
	}
	return records, ClassNames(records), nil
}

// Commit inserts every record not inserted yet into sheet, in order. A
// failing record does not stop the others; all failures are returned
// together and each unwraps to a *SinkError. Records inserted before a
// failure stay inserted.
func (e *Engine) Commit(records []*RuleRecord, sheet *Sheet) error {
	if e == nil {
		return &ConfigurationError{What: "no engine configured"}
	}
	if sheet == nil {
		return &ConfigurationError{What: "no style sheet attached"}
	}

	var errs error
	for _, rec := range records {
		inserted, err := e.tracker.EnsureInserted(rec, sheet)
		if err != nil {
			e.log.Warn("Unable to insert rule", zap.String("rule", rec.Rule), zap.Error(err))
			e.observer.RecordInsertFailed(rec, err)
			errs = multierr.Append(errs, err)
			continue
		}
		if inserted {
			e.observer.RecordInserted(rec, sheet.Mode())
		}
	}
	return errs
}
