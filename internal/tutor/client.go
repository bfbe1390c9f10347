package tutor

import (
	"context"
)

// RunStatus is the terminal state reported for a run.
type RunStatus string

const (
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
	RunStatusCancelled  RunStatus = "cancelled"
	RunStatusExpired    RunStatus = "expired"
	RunStatusIncomplete RunStatus = "incomplete"
)

// Agent is a remote resource encapsulating a model plus fixed instruction
// text. It is reusable across sessions; whoever created it owns it.
type Agent struct {
	ID    string
	Name  string
	Model string
}

// Thread is a remote, append-only conversation context.
type Thread struct {
	ID string
}

// Message is one conversation entry. A message can carry several text
// segments; only the last one is treated as authoritative content.
// Non-text content is not represented at all.
type Message struct {
	Role  string
	Texts []string
}

// Run reports the terminal state of one inference invocation. FailureCode
// and FailureDetail are only meaningful when Status is RunStatusFailed.
type Run struct {
	Status        RunStatus
	FailureCode   string
	FailureDetail string
}

// Client is the remote agent service. It is constructed once at startup
// and passed explicitly, never reached as ambient state, so tests can
// substitute a fake.
type Client interface {
	// GetAgent fetches an existing agent by id.
	GetAgent(ctx context.Context, id string) (Agent, error)

	// CreateAgent creates a new agent with the given instructions.
	CreateAgent(ctx context.Context, name, model, instructions string) (Agent, error)

	// DeleteAgent removes an agent. The service treats deleting an absent
	// agent as a not-found error, which callers may choose to tolerate.
	DeleteAgent(ctx context.Context, id string) error

	// CreateThread creates a fresh conversation context.
	CreateThread(ctx context.Context) (Thread, error)

	// AppendUserMessage appends one user message, content forwarded verbatim.
	AppendUserMessage(ctx context.Context, threadID, content string) error

	// ListMessages returns all messages of a thread, oldest first.
	ListMessages(ctx context.Context, threadID string) ([]Message, error)

	// RunAndWait submits a run and blocks until it reaches a terminal
	// state. A run that terminates in failure is returned, not an error;
	// errors are for transport and service problems.
	RunAndWait(ctx context.Context, threadID, agentID string) (Run, error)
}
