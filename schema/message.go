package schema

import "time"

// MessageType classifies a message in a session transcript.
type MessageType string

const (
	// MessageTypeUser is a message authored by the user.
	MessageTypeUser MessageType = "user"
	// MessageTypeAssistant is a message authored by the agent.
	MessageTypeAssistant MessageType = "assistant"
	// MessageTypeSystem is an advisory message from the system.
	MessageTypeSystem MessageType = "system"
	// MessageTypeCommand carries a terminal command and its result.
	MessageTypeCommand MessageType = "command"
	// MessageTypeCode carries a code change.
	MessageTypeCode MessageType = "code"
	// MessageTypeFile carries a file reference.
	MessageTypeFile MessageType = "file"
)

// MessageStatus tracks delivery of a message. Messages are append-only;
// status transitions (sending to sent or error) are the only mutation.
type MessageStatus string

const (
	// MessageStatusSending indicates delivery is in flight.
	MessageStatusSending MessageStatus = "sending"
	// MessageStatusSent indicates the sandbox accepted the message.
	MessageStatusSent MessageStatus = "sent"
	// MessageStatusDelivered indicates the agent processed the message.
	MessageStatusDelivered MessageStatus = "delivered"
	// MessageStatusError indicates delivery failed.
	MessageStatusError MessageStatus = "error"
)

// CommandMeta carries the result of a terminal command message.
type CommandMeta struct {
	Command  string
	ExitCode int
	Output   string
}

// CodeMeta carries the diff of a code message.
type CodeMeta struct {
	Path string
	Diff string
}

// FileMeta describes the file referenced by a file message.
type FileMeta struct {
	Path string
	Size int64
}

// MessageMeta is optional structured payload attached to a message. At most
// one field is set, matching the message type.
type MessageMeta struct {
	Command *CommandMeta
	Code    *CodeMeta
	File    *FileMeta
}

// Message is one entry in a session transcript.
type Message struct {
	ID        MessageID
	SessionID SessionID
	Type      MessageType
	Content   string
	Status    MessageStatus
	Timestamp time.Time
	Meta      *MessageMeta
}
