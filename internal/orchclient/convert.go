package orchclient

import (
	"time"

	"pkt.systems/coxswain/internal/orchwire"
	"pkt.systems/coxswain/schema"
)

// FromWireSession converts a gateway session into the domain model. Epoch
// seconds become time values; zero stays zero and is defaulted downstream.
func FromWireSession(s orchwire.Session) schema.Session {
	out := schema.Session{
		ID:        schema.SessionID(s.ID),
		Name:      s.Name,
		State:     fromWireState(s.State),
		CreatedAt: fromEpochSeconds(s.CreatedAt),
		UpdatedAt: fromEpochSeconds(s.UpdatedAt),
		Labels:    s.Labels,
	}
	if ws, ok := s.Labels["workspace"]; ok {
		out.WorkspaceID = schema.WorkspaceID(ws)
	} else {
		out.WorkspaceID = schema.WorkspaceID(s.ID)
	}
	if s.Config != nil && s.Config.Repository != nil {
		out.Repo = schema.RepositoryRef{URL: s.Config.Repository.URL, Ref: s.Config.Repository.Ref}
	}
	if s.Status != nil {
		out.Ready = s.Status.Ready
		out.InternalEndpoint = s.Status.InternalEndpoint
	}
	return out
}

// FromWireSessions converts a session list preserving wire order.
func FromWireSessions(sessions []orchwire.Session) []schema.Session {
	out := make([]schema.Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, FromWireSession(s))
	}
	return out
}

// FromWireHealth converts a gateway health report.
func FromWireHealth(h orchwire.HealthResponse) schema.Health {
	return schema.Health{
		State:   schema.HealthState(h.Status),
		Version: h.Version,
		Details: h.Details,
	}
}

// ToWireRepository builds the config sub-object for session creation.
// Returns nil when no repository is referenced.
func ToWireRepository(url, ref string) *orchwire.SessionConfig {
	if url == "" {
		return nil
	}
	return &orchwire.SessionConfig{Repository: &orchwire.Repository{URL: url, Ref: ref}}
}

// FromWireMessage converts a sandbox chat message into the domain model.
func FromWireMessage(m orchwire.ChatMessage) schema.Message {
	out := schema.Message{
		ID:        schema.MessageID(m.ID),
		SessionID: schema.SessionID(m.SessionID),
		Type:      schema.MessageType(m.Type),
		Content:   m.Content,
		Status:    schema.MessageStatus(m.Status),
		Timestamp: fromEpochSeconds(m.Timestamp),
	}
	if out.Status == "" {
		out.Status = schema.MessageStatusSent
	}
	if out.Timestamp.IsZero() {
		out.Timestamp = time.Now()
	}
	if m.Meta != nil {
		meta := &schema.MessageMeta{}
		if m.Meta.Command != nil {
			meta.Command = &schema.CommandMeta{
				Command:  m.Meta.Command.Command,
				ExitCode: m.Meta.Command.ExitCode,
				Output:   m.Meta.Command.Output,
			}
		}
		if m.Meta.Code != nil {
			meta.Code = &schema.CodeMeta{Path: m.Meta.Code.Path, Diff: m.Meta.Code.Diff}
		}
		if m.Meta.File != nil {
			meta.File = &schema.FileMeta{Path: m.Meta.File.Path, Size: m.Meta.File.Size}
		}
		out.Meta = meta
	}
	return out
}

// FromWireMessages converts a transcript preserving order.
func FromWireMessages(messages []orchwire.ChatMessage) []schema.Message {
	out := make([]schema.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, FromWireMessage(m))
	}
	return out
}

// FromWireFiles converts a sandbox file listing.
func FromWireFiles(files []orchwire.FileEntry) []schema.FileEntry {
	out := make([]schema.FileEntry, 0, len(files))
	for _, f := range files {
		out = append(out, schema.FileEntry{Path: f.Path, Name: f.Name, Size: f.Size, IsDir: f.IsDir})
	}
	return out
}

// FromWireGitStatus converts a sandbox git status report.
func FromWireGitStatus(status orchwire.GitStatusResponse) schema.GitStatus {
	files := make([]schema.GitFileStatus, 0, len(status.Files))
	for _, f := range status.Files {
		files = append(files, schema.GitFileStatus{Path: f.Path, Status: f.Status})
	}
	return schema.GitStatus{Branch: status.Branch, Clean: status.Clean, Files: files}
}

func fromWireState(state string) schema.SessionState {
	if state == "" {
		return schema.SessionStateUnspecified
	}
	return schema.SessionState(state)
}

func fromEpochSeconds(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
