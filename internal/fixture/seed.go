package fixture

import (
	"fmt"
	"time"

	"pkt.systems/coxswain/schema"
)

// seedState populates a fresh user with one demo workspace and session so
// the application has something to show before the first create.
func seedState(state *userState, userID schema.UserID, now time.Time) {
	sessionID := schema.SessionID(newID())
	workspaceID := schema.WorkspaceID(sessionID)
	state.workspaces = append(state.workspaces, schema.Workspace{
		ID:        workspaceID,
		Name:      "demo-workspace",
		Status:    schema.WorkspaceStatusRunning,
		CreatedAt: now.Add(-time.Hour),
		UpdatedAt: now,
		Repo:      schema.RepositoryRef{URL: "https://github.com/acme/demo", Ref: "main"},
		OwnerID:   userID,
	})
	state.sessions = append(state.sessions, schema.Session{
		ID:               sessionID,
		Name:             "demo-workspace",
		WorkspaceID:      workspaceID,
		State:            schema.SessionStateRunning,
		CreatedAt:        now.Add(-time.Hour),
		UpdatedAt:        now,
		Repo:             schema.RepositoryRef{URL: "https://github.com/acme/demo", Ref: "main"},
		Ready:            true,
		InternalEndpoint: "fixture://sandbox",
	})
	state.messages[sessionID] = seedMessages(sessionID, now.Add(-time.Hour))
	state.files[sessionID] = seedFiles()
}

func seedMessages(sessionID schema.SessionID, at time.Time) []schema.Message {
	return []schema.Message{
		{
			ID:        schema.MessageID(newID()),
			SessionID: sessionID,
			Type:      schema.MessageTypeSystem,
			Content:   "Sandbox provisioned. Repository cloned and ready.",
			Status:    schema.MessageStatusDelivered,
			Timestamp: at,
		},
		{
			ID:        schema.MessageID(newID()),
			SessionID: sessionID,
			Type:      schema.MessageTypeAssistant,
			Content:   "Hi! I'm ready to work on this repository. What should we do first?",
			Status:    schema.MessageStatusDelivered,
			Timestamp: at.Add(time.Second),
		},
	}
}

func seedFiles() []schema.FileEntry {
	return []schema.FileEntry{
		{Path: "README.md", Name: "README.md", Size: 1204},
		{Path: "go.mod", Name: "go.mod", Size: 310},
		{Path: "main.go", Name: "main.go", Size: 2048},
		{Path: "internal", Name: "internal", IsDir: true},
		{Path: "internal/server.go", Name: "server.go", Size: 4096},
	}
}

// seedFileContent returns deterministic demo content for a seeded file.
func seedFileContent(path string) string {
	switch path {
	case "README.md":
		return "# demo\n\nA demo repository served from the fixture sandbox.\n"
	case "go.mod":
		return "module example.com/acme/demo\n\ngo 1.25\n"
	default:
		return fmt.Sprintf("// %s\n// Demo content served from the fixture sandbox.\n", path)
	}
}

// assistantReply fabricates the canned response to a user message.
func assistantReply(content string) string {
	if len(content) > 60 {
		content = content[:60] + "…"
	}
	return fmt.Sprintf("Acknowledged: %q. In demo mode I can only echo, but a live session would act on this.", content)
}
