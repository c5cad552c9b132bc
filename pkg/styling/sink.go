package styling

import "fmt"

// Mode is the way a sink accepts rules
type Mode int

const (
	// ModeText inserts complete rule text
	ModeText Mode = iota
	// ModeTyped inserts an empty rule and sets the property on it directly
	ModeTyped
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeTyped:
		return "typed"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses "text" or "typed"
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "text":
		return ModeText, nil
	case "typed":
		return ModeTyped, nil
	}
	return ModeText, &ConfigurationError{What: fmt.Sprintf("unknown sheet mode %q", s)}
}

// RuleHandle identifies a rule inside a sink. Its concrete type belongs to
// the sink.
type RuleHandle any

// Sink is the destination rules are inserted into, typically a style sheet
type Sink interface {
	InsertRule(rule string) (RuleHandle, error)
}

// TypedSink is a sink that can also set a property on an inserted rule
// without going through rule text. Mode is read once, when the sink is
// attached.
type TypedSink interface {
	Sink
	Mode() Mode
	SetProperty(h RuleHandle, property, value string) error
}

// Sheet is an attached sink with its insertion strategy fixed
type Sheet struct {
	sink  Sink
	typed TypedSink
}

// Attach inspects the sink's capabilities once and returns the handle the
// engine commits to.
func Attach(sink Sink) (*Sheet, error) {
	if sink == nil {
		return nil, &ConfigurationError{What: "no sink to attach"}
	}
	s := &Sheet{sink: sink}
	if ts, ok := sink.(TypedSink); ok && ts.Mode() == ModeTyped {
		s.typed = ts
	}
	return s, nil
}

// MustAttach is like Attach but panics on a nil sink
func MustAttach(sink Sink) *Sheet {
	s, err := Attach(sink)
	if err != nil {
		panic(err)
	}
	return s
}

// Mode returns the insertion strategy chosen at attach time
func (s *Sheet) Mode() Mode {
	if s.typed != nil {
		return ModeTyped
	}
	return ModeText
}

// Sink returns the underlying sink
func (s *Sheet) Sink() Sink {
	return s.sink
}

// insert pushes one record. Typed mode has no selector syntax for states,
// so stated records always go in as text.
func (s *Sheet) insert(rec *RuleRecord) error {
	if s.typed == nil || rec.State != StateNone {
		_, err := s.sink.InsertRule(rec.Rule)
		return err
	}

	h, err := s.typed.InsertRule(rec.Selector() + " {}")
	if err != nil {
		return err
	}
	return s.typed.SetProperty(h, rec.CSSName, rec.Value)
}
