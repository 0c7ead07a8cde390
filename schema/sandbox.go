package schema

// HealthState is the orchestrator's reported serving state.
type HealthState string

const (
	// HealthServing indicates the orchestrator is serving.
	HealthServing HealthState = "SERVING"
	// HealthNotServing indicates the orchestrator is up but not serving.
	HealthNotServing HealthState = "NOT_SERVING"
)

// Health is the orchestrator health report.
type Health struct {
	State   HealthState
	Version string
	Details map[string]string
}

// FileEntry describes one entry of a sandbox file listing.
type FileEntry struct {
	Path  string
	Name  string
	Size  int64
	IsDir bool
}

// FileContent is the content of one sandbox file.
type FileContent struct {
	Path    string
	Content string
}

// CommandResult is the outcome of a terminal command run in a sandbox.
type CommandResult struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

// GitFileStatus is one entry of a sandbox git status.
type GitFileStatus struct {
	Path   string
	Status string
}

// GitStatus is the git state of a sandbox working tree.
type GitStatus struct {
	Branch string
	Clean  bool
	Files  []GitFileStatus
}
