package orchwire

// Bodies of the sandbox HTTP surface reached through the proxy. Paths are
// fixed by convention: POST /chat/messages, GET /files, GET /files/{path},
// POST /terminal/execute, GET /git/status.

// ChatMessageRequest is the POST /chat/messages request body.
type ChatMessageRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// ChatMessage is a transcript entry as the sandbox reports it.
type ChatMessage struct {
	ID        string       `json:"id"`
	SessionID string       `json:"sessionId,omitempty"`
	Type      string       `json:"type"`
	Content   string       `json:"content"`
	Status    string       `json:"status,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
	Meta      *MessageMeta `json:"meta,omitempty"`
}

// MessageMeta is optional structured payload on a chat message.
type MessageMeta struct {
	Command *CommandMeta `json:"command,omitempty"`
	Code    *CodeMeta    `json:"code,omitempty"`
	File    *FileMeta    `json:"file,omitempty"`
}

// CommandMeta carries a command result.
type CommandMeta struct {
	Command  string `json:"command"`
	ExitCode int    `json:"exitCode"`
	Output   string `json:"output,omitempty"`
}

// CodeMeta carries a code diff.
type CodeMeta struct {
	Path string `json:"path"`
	Diff string `json:"diff"`
}

// FileMeta describes a referenced file.
type FileMeta struct {
	Path string `json:"path"`
	Size int64  `json:"size,omitempty"`
}

// ChatMessageResponse is the POST /chat/messages response body.
type ChatMessageResponse struct {
	Message *ChatMessage `json:"message"`
}

// ListMessagesResponse is the GET /chat/messages response body.
type ListMessagesResponse struct {
	Messages []ChatMessage `json:"messages"`
}

// FileEntry is one entry of a GET /files listing.
type FileEntry struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Size  int64  `json:"size,omitempty"`
	IsDir bool   `json:"isDir,omitempty"`
}

// ListFilesResponse is the GET /files response body.
type ListFilesResponse struct {
	Files []FileEntry `json:"files"`
}

// ReadFileResponse is the GET /files/{path} response body.
type ReadFileResponse struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ExecuteRequest is the POST /terminal/execute request body.
type ExecuteRequest struct {
	Command string `json:"command"`
}

// ExecuteResponse is the POST /terminal/execute response body.
type ExecuteResponse struct {
	ExitCode int    `json:"exitCode"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

// GitFile is one entry of a git status report.
type GitFile struct {
	Path   string `json:"path"`
	Status string `json:"status"`
}

// GitStatusResponse is the GET /git/status response body.
type GitStatusResponse struct {
	Branch string    `json:"branch"`
	Clean  bool      `json:"clean"`
	Files  []GitFile `json:"files,omitempty"`
}
