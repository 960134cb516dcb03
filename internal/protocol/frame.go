// Package protocol implements the fixed-layout binary frame exchanged
// between chat clients and the relay.
//
// A frame is 136 bytes: opcode (int32), aux (int32), 128-byte content field.
// Integers are big-endian. The content is zero-terminated, so at most
// MaxTextLen bytes of text fit in one frame.
package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	ContentSize = 128
	FrameSize   = 4 + 4 + ContentSize
	MaxTextLen  = ContentSize - 1
)

var ErrFrameSize = errors.New("protocol: bad frame size")

type Opcode int32

const (
	OpJoin        Opcode = 100
	OpDepart      Opcode = 101
	OpSend        Opcode = 102
	OpJoinOK      Opcode = 103
	OpBroadcast   Opcode = 104
	OpServerClose Opcode = 105
	OpServerFail  Opcode = 106
)

func (op Opcode) Valid() bool {
	return op >= OpJoin && op <= OpServerFail
}

// carriesText reports whether aux holds the content length for op.
func (op Opcode) carriesText() bool {
	return op == OpJoin || op == OpSend || op == OpBroadcast
}

func (op Opcode) String() string {
	switch op {
	case OpJoin:
		return "JOIN"
	case OpDepart:
		return "DEPART"
	case OpSend:
		return "SEND"
	case OpJoinOK:
		return "JOIN_OK"
	case OpBroadcast:
		return "BROADCAST"
	case OpServerClose:
		return "SERVER_CLOSE"
	case OpServerFail:
		return "SERVER_FAIL"
	default:
		return fmt.Sprintf("OP(%d)", int32(op))
	}
}

// ErrorCode is carried in aux of a SERVER_FAIL frame.
type ErrorCode int32

const (
	CodeDuplicateName  ErrorCode = 200
	CodeRoomFull       ErrorCode = 201
	CodeUnknownCommand ErrorCode = 202
	CodeOther          ErrorCode = 203
)

func (c ErrorCode) String() string {
	switch c {
	case CodeDuplicateName:
		return "duplicate name"
	case CodeRoomFull:
		return "room full"
	case CodeUnknownCommand:
		return "unknown command"
	case CodeOther:
		return "other error"
	default:
		return fmt.Sprintf("error code %d", int32(c))
	}
}

type Frame struct {
	Op   Opcode
	Aux  int32
	Text string
}

func Join(name string) Frame      { return Frame{Op: OpJoin, Text: name} }
func Send(text string) Frame      { return Frame{Op: OpSend, Text: text} }
func Depart() Frame               { return Frame{Op: OpDepart, Aux: -1} }
func JoinOK() Frame               { return Frame{Op: OpJoinOK, Aux: -1} }
func Broadcast(line string) Frame { return Frame{Op: OpBroadcast, Text: line} }
func ServerClose() Frame          { return Frame{Op: OpServerClose, Aux: -1} }
func Fail(code ErrorCode) Frame   { return Frame{Op: OpServerFail, Aux: int32(code)} }

// Truncate cuts s to the number of bytes that fit into one content field.
func Truncate(s string) string {
	if len(s) > MaxTextLen {
		return s[:MaxTextLen]
	}
	return s
}

// Encode lays f out on the wire. Text is truncated to MaxTextLen bytes and
// always zero-terminated. For JOIN, SEND and BROADCAST aux is the truncated
// text length; other opcodes keep f.Aux.
func Encode(f Frame) [FrameSize]byte {
	var buf [FrameSize]byte
	text := Truncate(f.Text)
	aux := f.Aux
	if f.Op.carriesText() {
		aux = int32(len(text))
	}
	binary.BigEndian.PutUint32(buf[0:4], uint32(f.Op))
	binary.BigEndian.PutUint32(buf[4:8], uint32(aux))
	copy(buf[8:], text)
	return buf
}

// Decode is the inverse of Encode. It never fails: unknown opcodes are
// returned as-is for the caller to validate, and content lacking a zero
// terminator is cut at MaxTextLen bytes.
func Decode(buf *[FrameSize]byte) Frame {
	content := buf[8:]
	n := bytes.IndexByte(content, 0)
	if n < 0 {
		n = MaxTextLen
	}
	return Frame{
		Op:   Opcode(int32(binary.BigEndian.Uint32(buf[0:4]))),
		Aux:  int32(binary.BigEndian.Uint32(buf[4:8])),
		Text: string(content[:n]),
	}
}

// DecodeBytes decodes a frame from a message-oriented transport.
func DecodeBytes(b []byte) (Frame, error) {
	if len(b) != FrameSize {
		return Frame{}, fmt.Errorf("%w: got %d bytes", ErrFrameSize, len(b))
	}
	return Decode((*[FrameSize]byte)(b)), nil
}

func ReadFrame(r io.Reader) (Frame, error) {
	var buf [FrameSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Frame{}, err
	}
	return Decode(&buf), nil
}

func WriteFrame(w io.Writer, f Frame) error {
	buf := Encode(f)
	_, err := w.Write(buf[:])
	return err
}
