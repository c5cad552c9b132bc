package live

// MessageType is the first byte of every live frame
type MessageType uint8

const (
	// FrameRules carries a run of rules: uvarint seq of the first rule,
	// uvarint count, then each rule as a length-prefixed string.
	FrameRules MessageType = 0x00
	// FrameControl carries a length-prefixed command name and its uvarint
	// arguments.
	FrameControl MessageType = 0x02
)

// Control commands
const (
	// ControlHello is sent by the server on connect with the number of rules
	// it holds, and answered by the client with the number it already has.
	ControlHello = "HELLO"
	ControlPing  = "PING"
	ControlPong  = "PONG"
)

// Rules is a decoded FrameRules message
type Rules struct {
	// Seq is the sheet position of the first rule, counting from zero
	Seq   uint64
	Rules []string
}

// Control is a decoded FrameControl message
type Control struct {
	Command string
	Args    []uint64
}
