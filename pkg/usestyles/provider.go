// Package usestyles binds the styling engine to a render/commit component
// lifecycle. A Provider supplies the engine and the style sheet; a Hook
// belongs to one component instance, computes its class names during render
// and inserts its rules after commit.
package usestyles

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/recera/vango-styles/pkg/styling"
	"github.com/recera/vango-styles/pkg/styling/sheet"
)

// SheetSource acquires the sink a provider commits to. It is called at most
// once, on first commit.
type SheetSource func() (styling.Sink, error)

// Provider is the scope that owns an engine and lazily acquires a sheet
type Provider struct {
	engine *styling.Engine
	source SheetSource
	log    *zap.Logger

	once  sync.Once
	sheet *styling.Sheet
	err   error
}

// ProviderOption configures a Provider
type ProviderOption func(*providerConfig)

type providerConfig struct {
	engine  *styling.Engine
	cache   *styling.RuleCache
	tracker *styling.InsertionTracker
	source  SheetSource
	log     *zap.Logger
}

// WithEngine uses an existing engine. WithCache and WithTracker are ignored
// when an engine is given.
func WithEngine(e *styling.Engine) ProviderOption {
	return func(c *providerConfig) { c.engine = e }
}

// WithCache overrides the cache of the provider's own engine
func WithCache(cache *styling.RuleCache) ProviderOption {
	return func(c *providerConfig) { c.cache = cache }
}

// WithTracker overrides the tracker of the provider's own engine
func WithTracker(t *styling.InsertionTracker) ProviderOption {
	return func(c *providerConfig) { c.tracker = t }
}

// WithSheet commits to sink
func WithSheet(sink styling.Sink) ProviderOption {
	return func(c *providerConfig) {
		c.source = func() (styling.Sink, error) { return sink, nil }
	}
}

// WithSheetSource acquires the sink lazily
func WithSheetSource(src SheetSource) ProviderOption {
	return func(c *providerConfig) { c.source = src }
}

// WithLogger sets the provider's logger
func WithLogger(log *zap.Logger) ProviderOption {
	return func(c *providerConfig) { c.log = log }
}

// NewProvider creates a provider. Without options it uses the process-wide
// engine and a fresh text sheet.
func NewProvider(opts ...ProviderOption) *Provider {
	cfg := providerConfig{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = zap.NewNop()
	}
	log := cfg.log.Named("usestyles")

	engine := cfg.engine
	switch {
	case engine != nil:
	case cfg.cache != nil || cfg.tracker != nil:
		engine = styling.New(
			styling.WithCache(cfg.cache),
			styling.WithTracker(cfg.tracker),
			styling.WithLogger(cfg.log),
		)
	default:
		engine = styling.Default()
	}

	source := cfg.source
	if source == nil {
		source = func() (styling.Sink, error) {
			return sheet.NewText(sheet.WithLogger(cfg.log)), nil
		}
	}

	return &Provider{engine: engine, source: source, log: log}
}

// Engine returns the provider's engine
func (p *Provider) Engine() *styling.Engine {
	return p.engine
}

// classLister is implemented by sheets that already hold generated rules
type classLister interface {
	ClassNames() []string
}

// Sheet acquires the style sheet on first use. Rules an acquired sheet
// already contains, e.g. from server-side rendering, are marked as inserted
// so they are not added twice.
func (p *Provider) Sheet() (*styling.Sheet, error) {
	p.once.Do(func() {
		sink, err := p.source()
		if err != nil {
			p.err = &styling.ConfigurationError{What: "unable to acquire style sheet: " + err.Error()}
			return
		}
		p.sheet, p.err = styling.Attach(sink)
		if p.err != nil {
			return
		}
		if cl, ok := sink.(classLister); ok {
			if names := cl.ClassNames(); len(names) > 0 {
				p.engine.Tracker().Mark(names...)
				p.log.Debug("Adopted existing rules", zap.Int("classes", len(names)))
			}
		}
		p.log.Debug("Attached style sheet", zap.Stringer("mode", p.sheet.Mode()))
	})
	return p.sheet, p.err
}

// Commit inserts records into the provider's sheet
func (p *Provider) Commit(records []*styling.RuleRecord) error {
	s, err := p.Sheet()
	if err != nil {
		return err
	}
	return p.engine.Commit(records, s)
}

type providerKey struct{}

// NewContext returns a context carrying p
func NewContext(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// FromContext returns the provider carried by ctx, or nil
func FromContext(ctx context.Context) *Provider {
	p, _ := ctx.Value(providerKey{}).(*Provider)
	return p
}
