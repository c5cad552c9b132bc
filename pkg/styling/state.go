package styling

// State is an interactive pseudo-class scoping a declaration.
// The zero value is the base state.
type State string

const (
	StateNone         State = ""
	StateHover        State = ":hover"
	StateFocus        State = ":focus"
	StateFocusVisible State = ":focus-visible"
	StateFocusWithin  State = ":focus-within"
)

// supportedStates is the closed set of states a style object may nest under
var supportedStates = map[State]bool{
	StateHover:        true,
	StateFocus:        true,
	StateFocusVisible: true,
	StateFocusWithin:  true,
}

// States returns the supported interactive states in a fixed order
func States() []State {
	return []State{StateHover, StateFocus, StateFocusVisible, StateFocusWithin}
}

// IsSupported reports whether s is one of the supported interactive states
func (s State) IsSupported() bool {
	return supportedStates[s]
}

// ParseState maps an object key to a state. ok is false for anything that is
// not a supported state key.
func ParseState(key string) (State, bool) {
	s := State(key)
	return s, s.IsSupported()
}

// Suffix returns the selector suffix for the state, empty for the base state
func (s State) Suffix() string {
	return string(s)
}

func (s State) String() string {
	if s == StateNone {
		return "base"
	}
	return string(s)
}
