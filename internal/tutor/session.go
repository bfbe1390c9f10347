package tutor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// noMessagesPlaceholder is shown when a thread has no displayable text.
const noMessagesPlaceholder = "(no messages)"

// Recorder archives completed turns locally. All methods are best-effort
// from the session's point of view; a failing recorder never aborts a turn.
type Recorder interface {
	Begin(agentID, threadID string) error
	Record(role, content string) error
	End() error
}

// Options configure a Session.
type Options struct {
	// Model is the deployment used when a new agent has to be created.
	Model string

	// AgentID, when set, reuses that agent instead of creating one.
	// Fetch failure is fatal so a mistyped id never silently spawns a
	// duplicate agent.
	AgentID string

	// Out receives the conversation and lifecycle messages.
	Out io.Writer

	Log      zerolog.Logger
	Recorder Recorder
}

// Session owns exactly one agent handle and one thread handle, used
// strictly sequentially. Whether the agent was created here is decided
// once at startup and drives cleanup responsibility at shutdown.
type Session struct {
	client   Client
	opts     Options
	out      io.Writer
	log      zerolog.Logger
	recorder Recorder

	agent      Agent
	thread     Thread
	createdNew bool
	closed     bool
}

// NewSession creates a session around the given client.
func NewSession(client Client, opts Options) *Session {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Session{
		client:   client,
		opts:     opts,
		out:      out,
		log:      opts.Log,
		recorder: opts.Recorder,
	}
}

// Start obtains the agent handle and creates the conversation thread.
// Any error here is fatal to the session; nothing is cleaned up because
// a reused agent was never ours and a failed create left nothing behind.
func (s *Session) Start(ctx context.Context, instructions string) error {
	agent, createdNew, err := s.EnsureAgent(ctx, instructions)
	if err != nil {
		return err
	}
	s.agent = agent
	s.createdNew = createdNew

	thread, err := s.client.CreateThread(ctx)
	if err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}
	s.thread = thread
	fmt.Fprintf(s.out, "Created thread ID: %s\n", thread.ID)

	if s.recorder != nil {
		if err := s.recorder.Begin(s.agent.ID, s.thread.ID); err != nil {
			s.log.Warn().Err(err).Msg("history disabled for this session")
			s.recorder = nil
		}
	}
	return nil
}

// EnsureAgent fetches the configured agent or creates a new one.
//
// A configured id that cannot be fetched is returned as an error with
// the underlying detail; there is no fallback to creation, so an
// operator who expected reuse never accumulates duplicate agents.
func (s *Session) EnsureAgent(ctx context.Context, instructions string) (Agent, bool, error) {
	if s.opts.AgentID != "" {
		agent, err := s.client.GetAgent(ctx, s.opts.AgentID)
		if err != nil {
			return Agent{}, false, fmt.Errorf("failed to fetch existing agent %s: %w", s.opts.AgentID, err)
		}
		return agent, false, nil
	}

	agent, err := s.client.CreateAgent(ctx, AgentName, s.opts.Model, instructions)
	if err != nil {
		return Agent{}, false, fmt.Errorf("failed to create agent: %w", err)
	}
	fmt.Fprintf(s.out, "Created agent ID: %s\n", agent.ID)
	return agent, true, nil
}

// AppendUserMessage forwards the raw input verbatim as a user message.
func (s *Session) AppendUserMessage(ctx context.Context, content string) error {
	return s.client.AppendUserMessage(ctx, s.thread.ID, content)
}

// RunAgent triggers one inference run over the thread's history and
// blocks until the service reports a terminal state. A failed terminal
// state comes back as a RunFailedError; other terminal states return
// normally with no local post-processing.
func (s *Session) RunAgent(ctx context.Context) error {
	run, err := s.client.RunAndWait(ctx, s.thread.ID, s.agent.ID)
	if err != nil {
		return err
	}
	if run.Status == RunStatusFailed {
		return &RunFailedError{Code: run.FailureCode, Detail: run.FailureDetail}
	}
	return nil
}

// FetchMessages reconstructs the transcript, oldest first. Each message
// may carry several text segments; only the last one is kept. Messages
// without any text segment are skipped entirely.
func (s *Session) FetchMessages(ctx context.Context) ([]string, error) {
	msgs, err := s.client.ListMessages(ctx, s.thread.ID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if len(m.Texts) == 0 {
			continue
		}
		out = append(out, m.Texts[len(m.Texts)-1])
	}
	return out, nil
}

// ShowLatest prints the newest transcript entry framed with markers and
// returns it. An empty transcript yields a fixed placeholder.
func (s *Session) ShowLatest(ctx context.Context) (string, error) {
	msgs, err := s.FetchMessages(ctx)
	if err != nil {
		return "", err
	}
	latest := noMessagesPlaceholder
	if len(msgs) > 0 {
		latest = msgs[len(msgs)-1]
	}
	fmt.Fprintf(s.out, "\n--- agent reply ---\n%s\n-------------------\n", latest)
	return latest, nil
}

// Close runs the shutdown cleanup exactly once: an agent created by this
// session is deleted best-effort, an externally supplied one is kept so
// the operator can reuse it. Callers pass a fresh context because the
// loop context is usually already cancelled by the time cleanup runs.
func (s *Session) Close(ctx context.Context) {
	if s.closed {
		return
	}
	s.closed = true

	if s.recorder != nil {
		if err := s.recorder.End(); err != nil {
			s.log.Warn().Err(err).Msg("failed to finalize history session")
		}
	}

	if s.agent.ID == "" {
		return
	}
	if s.createdNew {
		s.safeDeleteAgent(ctx, s.agent.ID)
	} else {
		fmt.Fprintln(s.out, "Existing agent kept for reuse.")
	}
}

// safeDeleteAgent deletes best-effort. Not-found means the agent is
// already gone (raced by a concurrent session or a prior rollback) and
// counts as success. Everything else is a warning, never escalated.
func (s *Session) safeDeleteAgent(ctx context.Context, id string) {
	err := s.client.DeleteAgent(ctx, id)
	switch {
	case err == nil:
		fmt.Fprintf(s.out, "Cleaned up agent %s\n", id)
	case IsNotFound(err):
		fmt.Fprintf(s.out, "Agent %s is already gone, nothing to clean up.\n", id)
	case IsServiceError(err):
		s.log.Warn().Err(err).Str("agent_id", id).Msg("agent deletion failed")
		fmt.Fprintf(s.out, "Warning: could not delete agent %s: %v\n", id, err)
	default:
		s.log.Warn().Err(err).Str("agent_id", id).Msg("unexpected error deleting agent")
		fmt.Fprintf(s.out, "Unexpected error deleting agent %s: %v\n", id, err)
	}
}

// AgentID returns the id of the session's agent handle.
func (s *Session) AgentID() string { return s.agent.ID }

// ThreadID returns the id of the session's thread.
func (s *Session) ThreadID() string { return s.thread.ID }

// CreatedNew reports whether this session created its agent.
func (s *Session) CreatedNew() bool { return s.createdNew }

// record archives one turn, logging rather than failing on error.
func (s *Session) record(role, content string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(role, content); err != nil {
		s.log.Warn().Err(err).Str("role", role).Msg("failed to record turn")
	}
}
