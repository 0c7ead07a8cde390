package core

import (
	"testing"
	"time"

	"pkt.systems/coxswain/schema"
)

func TestDeriveConnectionStatusTable(t *testing.T) {
	tests := []struct {
		state schema.SessionState
		want  schema.ConnectionStatus
	}{
		{schema.SessionStateRunning, schema.StatusConnected},
		{schema.SessionStateCreating, schema.StatusConnecting},
		{schema.SessionStateError, schema.StatusError},
		{schema.SessionStateStopped, schema.StatusDisconnected},
		{schema.SessionStateStopping, schema.StatusDisconnected},
		{schema.SessionStateUnspecified, schema.StatusDisconnected},
		{schema.SessionState(""), schema.StatusDisconnected},
		{schema.SessionState("SESSION_STATE_SOMETHING_NEW"), schema.StatusDisconnected},
	}
	for _, tt := range tests {
		if got := DeriveConnectionStatus(tt.state); got != tt.want {
			t.Errorf("DeriveConnectionStatus(%q) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestIsSessionReady(t *testing.T) {
	tests := []struct {
		name  string
		state schema.SessionState
		ready bool
		want  bool
	}{
		{"running and ready", schema.SessionStateRunning, true, true},
		{"running not ready", schema.SessionStateRunning, false, false},
		{"creating and ready", schema.SessionStateCreating, true, false},
		{"stopped and ready", schema.SessionStateStopped, true, false},
		{"error not ready", schema.SessionStateError, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := schema.Session{State: tt.state, Ready: tt.ready}
			if got := IsSessionReady(s); got != tt.want {
				t.Errorf("IsSessionReady = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionEndpoint(t *testing.T) {
	if ep, ok := SessionEndpoint(schema.Session{InternalEndpoint: "http://10.0.0.3:8080"}); !ok || ep != "http://10.0.0.3:8080" {
		t.Fatalf("expected endpoint, got %q ok=%v", ep, ok)
	}
	if _, ok := SessionEndpoint(schema.Session{}); ok {
		t.Fatal("expected no endpoint for empty session")
	}
}

func TestAdaptSessionProjection(t *testing.T) {
	created := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)
	s := schema.Session{
		ID:        "0123456789abcdef",
		Name:      "demo build",
		State:     schema.SessionStateRunning,
		Ready:     true,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Minute),
	}
	conv := AdaptSession(s)
	if conv.ID != "01234567" {
		t.Errorf("expected truncated id, got %q", conv.ID)
	}
	if conv.SessionID != s.ID {
		t.Errorf("expected full session id retained, got %q", conv.SessionID)
	}
	if conv.Title != "demo build" {
		t.Errorf("unexpected title %q", conv.Title)
	}
	if !conv.CreatedAt.Equal(created) || !conv.UpdatedAt.Equal(created.Add(time.Minute)) {
		t.Errorf("timestamps not carried through: %v %v", conv.CreatedAt, conv.UpdatedAt)
	}
	if len(conv.Messages) != 0 {
		t.Errorf("messages must start empty, got %d", len(conv.Messages))
	}
	if conv.Status != schema.StatusConnected {
		t.Errorf("expected connected, got %q", conv.Status)
	}
}

func TestAdaptSessionSynthesizesTitleAndTimestamps(t *testing.T) {
	before := time.Now()
	conv := AdaptSession(schema.Session{ID: "feedc0ffee01", State: schema.SessionStateCreating})
	if conv.Title != "Session feedc0ff" {
		t.Errorf("unexpected synthesized title %q", conv.Title)
	}
	if conv.CreatedAt.Before(before) || conv.UpdatedAt.Before(before) {
		t.Errorf("absent timestamps must default to now")
	}
	if conv.Status != schema.StatusConnecting {
		t.Errorf("expected connecting, got %q", conv.Status)
	}
}

func TestAdaptSessionEmptyID(t *testing.T) {
	conv := AdaptSession(schema.Session{})
	if conv.ID != "" {
		t.Errorf("expected empty conversation id, got %q", conv.ID)
	}
	if conv.Title != "Session " {
		t.Errorf("unexpected title %q", conv.Title)
	}
}

func TestAdaptSessionRunningNotReadyShowsConnecting(t *testing.T) {
	conv := AdaptSession(schema.Session{ID: "abc", State: schema.SessionStateRunning})
	if conv.Status != schema.StatusConnecting {
		t.Fatalf("running without ready must display connecting, got %q", conv.Status)
	}
}

func TestAdaptSessionStateDominatesReadiness(t *testing.T) {
	conv := AdaptSession(schema.Session{ID: "abc", State: schema.SessionStateStopped, Ready: true})
	if conv.Status != schema.StatusDisconnected {
		t.Fatalf("stopped session must display disconnected regardless of readiness, got %q", conv.Status)
	}
}

func TestAdaptSessionParsesRepo(t *testing.T) {
	conv := AdaptSession(schema.Session{
		ID:    "abc",
		State: schema.SessionStateRunning,
		Repo:  schema.RepositoryRef{URL: "https://github.com/acme/demo.git", Ref: "main"},
	})
	if conv.Repo.Owner != "acme" || conv.Repo.Name != "demo" {
		t.Fatalf("unexpected parsed repo %+v", conv.Repo)
	}
	if conv.Repo.URL != "https://github.com/acme/demo.git" || conv.Repo.Ref != "main" {
		t.Fatalf("raw url and ref must be carried through, got %+v", conv.Repo)
	}

	conv = AdaptSession(schema.Session{ID: "abc", Repo: schema.RepositoryRef{URL: "file:///tmp/odd repo"}})
	if conv.Repo.Owner != "" || conv.Repo.URL != "file:///tmp/odd repo" {
		t.Fatalf("unrecognized url must degrade to the raw form, got %+v", conv.Repo)
	}
}

func TestAdaptSessionDeterministic(t *testing.T) {
	s := schema.Session{
		ID:        "0123456789abcdef",
		Name:      "stable",
		State:     schema.SessionStateError,
		CreatedAt: time.Unix(1700000000, 0),
		UpdatedAt: time.Unix(1700000300, 0),
	}
	first := AdaptSession(s)
	second := AdaptSession(s)
	if first.ID != second.ID || first.Title != second.Title || first.Status != second.Status ||
		!first.CreatedAt.Equal(second.CreatedAt) || !first.UpdatedAt.Equal(second.UpdatedAt) {
		t.Fatalf("adapting the same session twice diverged: %+v vs %+v", first, second)
	}
}
