package sheet

import (
	"fmt"
	"io"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"go.uber.org/zap"
)

// Parse loads an existing style sheet, e.g. one rendered by the server, into
// a text sheet. Plain rulesets are normalized to the single-line form the
// engine writes; at-rules are kept as douceur renders them.
func Parse(text string, opts ...Option) (*Text, error) {
	parsed, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse style sheet: %w", err)
	}

	t := NewText(opts...)
	for _, r := range parsed.Rules {
		if r.Kind == css.QualifiedRule {
			t.rules = append(t.rules, oneLine(r))
			continue
		}
		t.rules = append(t.rules, r.String())
	}
	t.opts.log.Debug("Loaded style sheet", zap.Int("rules", len(t.rules)))
	return t, nil
}

// Load reads and parses a style sheet from r. See Parse.
func Load(r io.Reader, opts ...Option) (*Text, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read style sheet: %w", err)
	}
	return Parse(string(data), opts...)
}
