package sheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ErrInvalidRule is returned by sinks for rule text that is not exactly one
// plain ruleset.
var ErrInvalidRule = errors.New("invalid rule")

// ValidateRule checks that rule is a single qualified ruleset: one selector
// list followed by a block of declarations. At-rules, nested rules and
// trailing content are rejected, which keeps a value like "red } body {"
// from escaping its block.
func ValidateRule(rule string) error {
	p := css.NewParser(parse.NewInput(strings.NewReader(rule)), false)

	rulesets := 0
	open := false
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: %v", ErrInvalidRule, err)
			}
			if open {
				return fmt.Errorf("%w: unterminated block", ErrInvalidRule)
			}
			if rulesets != 1 {
				return fmt.Errorf("%w: want one ruleset, got %d", ErrInvalidRule, rulesets)
			}
			return nil

		case css.CommentGrammar:

		case css.BeginRulesetGrammar:
			if open || rulesets > 0 {
				return fmt.Errorf("%w: more than one ruleset", ErrInvalidRule)
			}
			if len(p.Values()) == 0 {
				return fmt.Errorf("%w: missing selector", ErrInvalidRule)
			}
			open = true
			rulesets++

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			if !open {
				return fmt.Errorf("%w: declaration %q outside a block", ErrInvalidRule, data)
			}

		case css.EndRulesetGrammar:
			if !open {
				return fmt.Errorf("%w: unbalanced block", ErrInvalidRule)
			}
			open = false

		default:
			return fmt.Errorf("%w: unexpected %s %q", ErrInvalidRule, gt, data)
		}
	}
}
