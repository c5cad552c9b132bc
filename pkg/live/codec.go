package live

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// maxStringLen bounds a single decoded string
const maxStringLen = 1 << 20

// Encoder handles encoding of live protocol messages
type Encoder struct {
	w   io.Writer
	tmp [binary.MaxVarintLen64]byte
}

// NewEncoder creates a new encoder
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteUvarint writes an unsigned varint
func (e *Encoder) WriteUvarint(v uint64) error {
	n := binary.PutUvarint(e.tmp[:], v)
	_, err := e.w.Write(e.tmp[:n])
	return err
}

// WriteString writes a length-prefixed string
func (e *Encoder) WriteString(s string) error {
	if err := e.WriteUvarint(uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, s)
	return err
}

// WriteByte writes a single byte
func (e *Encoder) WriteByte(b byte) error {
	_, err := e.w.Write([]byte{b})
	return err
}

// Decoder handles decoding of live protocol messages
type Decoder struct {
	b *bytes.Reader
}

// NewDecoder creates a decoder over a complete frame
func NewDecoder(data []byte) *Decoder {
	return &Decoder{b: bytes.NewReader(data)}
}

// ReadUvarint reads an unsigned varint
func (d *Decoder) ReadUvarint() (uint64, error) {
	return binary.ReadUvarint(d.b)
}

// ReadByte reads a single byte
func (d *Decoder) ReadByte() (byte, error) {
	return d.b.ReadByte()
}

// ReadString reads a length-prefixed string
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if length > maxStringLen || length > uint64(d.b.Len()) {
		return "", fmt.Errorf("string length %d exceeds frame", length)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(d.b, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// Remaining returns the number of unread bytes
func (d *Decoder) Remaining() int {
	return d.b.Len()
}

// EncodeRules encodes a rules frame
func EncodeRules(seq uint64, rules []string) []byte {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	_ = enc.WriteByte(byte(FrameRules))
	_ = enc.WriteUvarint(seq)
	_ = enc.WriteUvarint(uint64(len(rules)))
	for _, r := range rules {
		_ = enc.WriteString(r)
	}
	return buf.Bytes()
}

// EncodeControl encodes a control frame
func EncodeControl(command string, args ...uint64) []byte {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	_ = enc.WriteByte(byte(FrameControl))
	_ = enc.WriteString(command)
	for _, a := range args {
		_ = enc.WriteUvarint(a)
	}
	return buf.Bytes()
}

// Decode decodes a frame into *Rules or *Control
func Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, errors.New("empty frame")
	}

	d := NewDecoder(data[1:])
	switch MessageType(data[0]) {
	case FrameRules:
		seq, err := d.ReadUvarint()
		if err != nil {
			return nil, fmt.Errorf("failed to decode rules seq: %w", err)
		}
		count, err := d.ReadUvarint()
		if err != nil {
			return nil, fmt.Errorf("failed to decode rules count: %w", err)
		}
		if count > uint64(d.Remaining()) {
			return nil, fmt.Errorf("rule count %d exceeds frame", count)
		}
		msg := &Rules{Seq: seq, Rules: make([]string, 0, count)}
		for i := uint64(0); i < count; i++ {
			r, err := d.ReadString()
			if err != nil {
				return nil, fmt.Errorf("failed to decode rule %d: %w", i, err)
			}
			msg.Rules = append(msg.Rules, r)
		}
		return msg, nil

	case FrameControl:
		cmd, err := d.ReadString()
		if err != nil {
			return nil, fmt.Errorf("failed to decode control command: %w", err)
		}
		msg := &Control{Command: cmd}
		for d.Remaining() > 0 {
			a, err := d.ReadUvarint()
			if err != nil {
				return nil, fmt.Errorf("failed to decode %s argument: %w", cmd, err)
			}
			msg.Args = append(msg.Args, a)
		}
		return msg, nil
	}
	return nil, fmt.Errorf("unknown frame type 0x%02x", data[0])
}
