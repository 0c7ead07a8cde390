package fixture

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pkt.systems/coxswain/internal/orchwire"
	"pkt.systems/coxswain/schema"
)

// Proxy simulates the sandbox HTTP surface. It dispatches on method and
// path the same way a real sandbox would, so typed operations exercise the
// full proxy path even in demo mode.
func (s *Source) Proxy(ctx context.Context, req schema.ProxyRequest) (schema.ProxyResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.stateFor(req.UserID)

	var sess *schema.Session
	for i := range state.sessions {
		if state.sessions[i].ID == req.SessionID {
			sess = &state.sessions[i]
			break
		}
	}
	if sess == nil {
		return errorReply(http.StatusNotFound, "session not found"), nil
	}

	path := strings.TrimSuffix(req.Path, "/")
	switch {
	case req.Method == http.MethodPost && path == "/chat/messages":
		return s.handleSendMessage(state, req)
	case req.Method == http.MethodGet && path == "/chat/messages":
		return jsonReply(http.StatusOK, orchwire.ListMessagesResponse{
			Messages: toWireMessages(state.messages[req.SessionID]),
		})
	case req.Method == http.MethodGet && path == "/files":
		return jsonReply(http.StatusOK, orchwire.ListFilesResponse{
			Files: toWireFiles(state.files[req.SessionID]),
		})
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/files/"):
		return s.handleReadFile(state, req.SessionID, strings.TrimPrefix(path, "/files/"))
	case req.Method == http.MethodPost && path == "/terminal/execute":
		return s.handleExecute(req)
	case req.Method == http.MethodGet && path == "/git/status":
		return jsonReply(http.StatusOK, orchwire.GitStatusResponse{
			Branch: "main",
			Clean:  false,
			Files:  []orchwire.GitFile{{Path: "main.go", Status: "M"}},
		})
	}
	return errorReply(http.StatusNotFound, "unknown sandbox path"), nil
}

func (s *Source) handleSendMessage(state *userState, req schema.ProxyRequest) (schema.ProxyResponse, error) {
	var body orchwire.ChatMessageRequest
	if err := json.Unmarshal(req.Body, &body); err != nil || body.Content == "" {
		return errorReply(http.StatusBadRequest, "invalid chat message"), nil
	}
	msgType := schema.MessageType(body.Type)
	if msgType == "" {
		msgType = schema.MessageTypeUser
	}
	now := s.now()
	msg := schema.Message{
		ID:        schema.MessageID(newID()),
		SessionID: req.SessionID,
		Type:      msgType,
		Content:   body.Content,
		Status:    schema.MessageStatusSent,
		Timestamp: now,
	}
	reply := schema.Message{
		ID:        schema.MessageID(newID()),
		SessionID: req.SessionID,
		Type:      schema.MessageTypeAssistant,
		Content:   assistantReply(body.Content),
		Status:    schema.MessageStatusDelivered,
		Timestamp: now.Add(time.Millisecond),
	}
	state.messages[req.SessionID] = append(state.messages[req.SessionID], msg, reply)
	s.persistLocked(req.UserID, state)
	return jsonReply(http.StatusOK, orchwire.ChatMessageResponse{Message: toWireMessagePtr(msg)})
}

func (s *Source) handleReadFile(state *userState, sessionID schema.SessionID, rawPath string) (schema.ProxyResponse, error) {
	path, err := url.PathUnescape(rawPath)
	if err != nil {
		path = rawPath
	}
	for _, f := range state.files[sessionID] {
		if f.Path == path && !f.IsDir {
			return jsonReply(http.StatusOK, orchwire.ReadFileResponse{
				Path:    path,
				Content: seedFileContent(path),
			})
		}
	}
	return errorReply(http.StatusNotFound, "file not found"), nil
}

func (s *Source) handleExecute(req schema.ProxyRequest) (schema.ProxyResponse, error) {
	var body orchwire.ExecuteRequest
	if err := json.Unmarshal(req.Body, &body); err != nil || body.Command == "" {
		return errorReply(http.StatusBadRequest, "invalid command"), nil
	}
	return jsonReply(http.StatusOK, orchwire.ExecuteResponse{
		ExitCode: 0,
		Stdout:   "(demo) " + body.Command + ": ok\n",
	})
}

func jsonReply(status int, body any) (schema.ProxyResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return schema.ProxyResponse{}, err
	}
	return schema.ProxyResponse{
		StatusCode: status,
		Body:       data,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}, nil
}

func errorReply(status int, message string) schema.ProxyResponse {
	data, _ := json.Marshal(orchwire.ErrorResponse{Error: message})
	return schema.ProxyResponse{
		StatusCode: status,
		Body:       data,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func toWireMessages(messages []schema.Message) []orchwire.ChatMessage {
	out := make([]orchwire.ChatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, toWireMessage(m))
	}
	return out
}

func toWireMessagePtr(m schema.Message) *orchwire.ChatMessage {
	wire := toWireMessage(m)
	return &wire
}

func toWireMessage(m schema.Message) orchwire.ChatMessage {
	wire := orchwire.ChatMessage{
		ID:        string(m.ID),
		SessionID: string(m.SessionID),
		Type:      string(m.Type),
		Content:   m.Content,
		Status:    string(m.Status),
		Timestamp: m.Timestamp.Unix(),
	}
	if m.Meta != nil {
		meta := &orchwire.MessageMeta{}
		if m.Meta.Command != nil {
			meta.Command = &orchwire.CommandMeta{
				Command:  m.Meta.Command.Command,
				ExitCode: m.Meta.Command.ExitCode,
				Output:   m.Meta.Command.Output,
			}
		}
		if m.Meta.Code != nil {
			meta.Code = &orchwire.CodeMeta{Path: m.Meta.Code.Path, Diff: m.Meta.Code.Diff}
		}
		if m.Meta.File != nil {
			meta.File = &orchwire.FileMeta{Path: m.Meta.File.Path, Size: m.Meta.File.Size}
		}
		wire.Meta = meta
	}
	return wire
}

func toWireFiles(files []schema.FileEntry) []orchwire.FileEntry {
	out := make([]orchwire.FileEntry, 0, len(files))
	for _, f := range files {
		out = append(out, orchwire.FileEntry{Path: f.Path, Name: f.Name, Size: f.Size, IsDir: f.IsDir})
	}
	return out
}
