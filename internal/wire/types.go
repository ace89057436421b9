package wire

import "errors"

type MessageType uint8

const (
	MessageTypeHello    MessageType = 1
	MessageTypeHelloAck MessageType = 2
	MessageTypeCopy     MessageType = 3
	MessageTypePaste    MessageType = 4
	MessageTypeContent  MessageType = 5
	MessageTypeAck      MessageType = 6
	MessageTypeError    MessageType = 7
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeHello:
		return "HELLO"
	case MessageTypeHelloAck:
		return "HELLO_ACK"
	case MessageTypeCopy:
		return "COPY"
	case MessageTypePaste:
		return "PASTE"
	case MessageTypeContent:
		return "CONTENT"
	case MessageTypeAck:
		return "ACK"
	case MessageTypeError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

var (
	ErrUnexpectedType = errors.New("wire: unexpected message type")
	ErrShortMessage   = errors.New("wire: message too short")
)

// RemoteError carries the text of an Error frame sent by the peer.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string { return "remote: " + e.Message }
