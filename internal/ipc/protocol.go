// Package ipc provides the control protocol between the numpadd daemon
// and its CLI client: length-framed messages with a fixed binary
// header and JSON payloads over a unix socket.
package ipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
)

// Protocol constants.
const (
	ProtocolVersion = 1
	ProtocolMagic   = 0x4e504943 // "NPIC"
)

// MessageType identifies the type of IPC message.
type MessageType uint16

const (
	// Control messages (0x00xx)
	MsgPing     MessageType = 0x0001
	MsgPong     MessageType = 0x0002
	MsgError    MessageType = 0x0003
	MsgShutdown MessageType = 0x0004
	MsgOK       MessageType = 0x0005

	// Status (0x01xx)
	MsgStatusRequest  MessageType = 0x0100
	MsgStatusResponse MessageType = 0x0101

	// Keypad control (0x02xx)
	MsgSetMode           MessageType = 0x0200
	MsgSetModeResp       MessageType = 0x0201
	MsgSetBrightness     MessageType = 0x0202
	MsgSetBrightnessResp MessageType = 0x0203
)

// Header is the fixed-size message header (16 bytes).
type Header struct {
	Magic     uint32
	Version   uint8
	Flags     uint8
	Type      MessageType
	RequestID uint32
	Length    uint32 // payload length, not including the header
}

// HeaderSize is the size of the header in bytes.
const HeaderSize = 16

// maxPayload bounds a frame; control payloads are tiny.
const maxPayload = 1 << 20

// Message wraps a header and payload.
type Message struct {
	Header  Header
	Payload []byte
}

// NewMessage creates a message with the given type and payload.
func NewMessage(msgType MessageType, requestID uint32, payload []byte) *Message {
	return &Message{
		Header: Header{
			Magic:     ProtocolMagic,
			Version:   ProtocolVersion,
			Type:      msgType,
			RequestID: requestID,
			Length:    uint32(len(payload)),
		},
		Payload: payload,
	}
}

// Write writes the header to a writer.
func (h *Header) Write(w io.Writer) error {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], h.Magic)
	buf[4] = h.Version
	buf[5] = h.Flags
	binary.BigEndian.PutUint16(buf[6:8], uint16(h.Type))
	binary.BigEndian.PutUint32(buf[8:12], h.RequestID)
	binary.BigEndian.PutUint32(buf[12:16], h.Length)
	_, err := w.Write(buf)
	return err
}

// ReadHeader reads and validates a header.
func ReadHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	h := &Header{
		Magic:     binary.BigEndian.Uint32(buf[0:4]),
		Version:   buf[4],
		Flags:     buf[5],
		Type:      MessageType(binary.BigEndian.Uint16(buf[6:8])),
		RequestID: binary.BigEndian.Uint32(buf[8:12]),
		Length:    binary.BigEndian.Uint32(buf[12:16]),
	}

	if h.Magic != ProtocolMagic {
		return nil, fmt.Errorf("invalid magic number: %x", h.Magic)
	}
	if h.Version > ProtocolVersion {
		return nil, fmt.Errorf("unsupported protocol version: %d", h.Version)
	}
	return h, nil
}

// Write writes the full message to a writer.
func (m *Message) Write(w io.Writer) error {
	if err := m.Header.Write(w); err != nil {
		return err
	}
	if len(m.Payload) > 0 {
		_, err := w.Write(m.Payload)
		return err
	}
	return nil
}

// ReadMessage reads a complete message.
func ReadMessage(r io.Reader) (*Message, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	m := &Message{Header: *h}
	if h.Length > 0 {
		if h.Length > maxPayload {
			return nil, fmt.Errorf("payload too large: %d bytes", h.Length)
		}
		m.Payload = make([]byte, h.Length)
		if _, err := io.ReadFull(r, m.Payload); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Request/response payloads.

// StatusResponse reports the daemon's current state.
type StatusResponse struct {
	Running    bool   `json:"running"`
	KeypadOn   bool   `json:"keypad_on"`
	Brightness string `json:"brightness"`
	Layout     string `json:"layout"`
	Device     string `json:"device"`
	I2CBus     int    `json:"i2c_bus"`
	UptimeSec  int64  `json:"uptime_sec"`
	Taps       uint64 `json:"taps"`
	Toggles    uint64 `json:"toggles"`
	KeyPresses uint64 `json:"key_presses"`
	Version    string `json:"version"`
}

// SetModeRequest turns the keypad on or off, or toggles it.
type SetModeRequest struct {
	// Mode is "on", "off", or "toggle".
	Mode string `json:"mode"`
}

// SetModeResponse acknowledges a mode change.
type SetModeResponse struct {
	KeypadOn bool `json:"keypad_on"`
}

// SetBrightnessRequest changes the backlight level.
type SetBrightnessRequest struct {
	// Level is "off", "low", "half", or "full".
	Level string `json:"level"`
}

// SetBrightnessResponse acknowledges a brightness change.
type SetBrightnessResponse struct {
	Level string `json:"level"`
}

// ErrorResponse carries a request failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Marshal builds a message with a JSON-encoded payload.
func Marshal(msgType MessageType, requestID uint32, v any) (*Message, error) {
	if v == nil {
		return NewMessage(msgType, requestID, nil), nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return NewMessage(msgType, requestID, payload), nil
}

// Unmarshal decodes a message's JSON payload into v.
func Unmarshal(m *Message, v any) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("message %#04x has no payload", uint16(m.Header.Type))
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// ErrorMessage builds an error response correlated to a request.
func ErrorMessage(requestID uint32, err error) *Message {
	m, _ := Marshal(MsgError, requestID, ErrorResponse{Error: err.Error()})
	return m
}
