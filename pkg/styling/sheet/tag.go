package sheet

import (
	"html"
	"io"
	"strings"
)

// StyleElementID is the id of the <style> element holding generated rules.
// Hosts that already have an element with this id reuse it.
const StyleElementID = "useStylesStylesheet"

// RuleLister is anything that can list its rules, like *Text and *Typed
type RuleLister interface {
	Rules() []string
}

// tagWriter tracks the first write error
type tagWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (t *tagWriter) write(s string) {
	if t.err != nil {
		return
	}
	n, err := io.WriteString(t.w, s)
	t.n += int64(n)
	t.err = err
}

// WriteStyleTag renders the rules of s as a <style> element. Rule text is
// written raw, as style content is not HTML-escaped; a closing tag inside a
// rule is neutralized so it cannot end the element early.
func WriteStyleTag(w io.Writer, s RuleLister, id string) (int64, error) {
	if id == "" {
		id = StyleElementID
	}

	tw := &tagWriter{w: w}
	tw.write(`<style id="`)
	tw.write(html.EscapeString(id))
	tw.write(`">`)
	rules := s.Rules()
	for _, rule := range rules {
		tw.write("\n")
		tw.write(rawText(rule))
	}
	if len(rules) > 0 {
		tw.write("\n")
	}
	tw.write("</style>")
	return tw.n, tw.err
}

// StyleTag is WriteStyleTag into a string
func StyleTag(s RuleLister, id string) string {
	var b strings.Builder
	_, _ = WriteStyleTag(&b, s, id)
	return b.String()
}

func rawText(rule string) string {
	if !strings.Contains(rule, "</") {
		return rule
	}
	return strings.ReplaceAll(rule, "</", `<\/`)
}
