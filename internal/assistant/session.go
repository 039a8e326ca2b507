package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	// NoCredentialReply is returned when no backend is configured.
	NoCredentialReply = "API Key not found."
	// UnavailableReply is returned for any failure talking to the model.
	UnavailableReply = "Error connecting to AI Core."
)

// Source is a web reference the model grounded its answer on.
type Source struct {
	Title string
	URI   string
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// ToolResult acknowledges a ToolCall back to the model.
type ToolResult struct {
	ID     string
	Name   string
	Result string
}

// Reply is one model response.
type Reply struct {
	Text    string
	Sources []Source
	Calls   []ToolCall
}

// Setup configures a new conversation.
type Setup struct {
	Instruction string
	Tools       []ToolName
	Grounding   bool
}

// Backend opens conversations with a remote model.
type Backend interface {
	Open(ctx context.Context, setup Setup) (Conversation, error)
}

// Conversation is a stateful exchange; the backend keeps the history.
type Conversation interface {
	Send(ctx context.Context, text string) (Reply, error)
	Respond(ctx context.Context, results []ToolResult) (Reply, error)
}

// Turn is the outcome of one Send. Notices come from handlers and are shown
// before Text.
type Turn struct {
	Notices []string
	Text    string
}

// Session is one conversation scoped to a Context. Turns are serialized.
type Session struct {
	backend Backend
	logger  *zap.Logger

	mu   sync.Mutex // serializes turns and guards conv
	conv Conversation

	scopeMu sync.Mutex // guards cur; writers also hold mu
	cur     Context
}

// NewSession creates a session in the general context. A nil backend means
// no credential is configured; every turn then answers NoCredentialReply.
func NewSession(backend Backend, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{backend: backend, logger: logger, cur: Context{Mode: General}}
}

// Reset discards the conversation history and scopes the session to c. It
// waits for an in-flight turn to finish.
func (s *Session) Reset(c Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scopeMu.Lock()
	s.cur = c
	s.scopeMu.Unlock()
	s.conv = nil
	s.logger.Debug("session reset", zap.String("mode", string(c.mode())), zap.String("project", c.ProjectID()))
}

// Context returns the current scope. It does not wait for a running turn,
// so handlers may call it.
func (s *Session) Context() Context {
	s.scopeMu.Lock()
	defer s.scopeMu.Unlock()
	return s.cur
}

// Send runs one turn: it forwards text (with the attachment manifest) to the
// model, runs the requested tools through h and composes the reply.
func (s *Session) Send(ctx context.Context, text string, attachments []string, h Handlers) Turn {
	if s.backend == nil {
		return Turn{Text: NoCredentialReply}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prompt := text
	if len(attachments) > 0 {
		prompt += fmt.Sprintf("\n[System: Analyzed files: %s.]", strings.Join(attachments, ", "))
	}

	var turn Turn
	if err := s.exchange(ctx, prompt, h, &turn); err != nil {
		s.logger.Error("model exchange failed", zap.Error(err), zap.String("mode", string(s.cur.mode())))
		turn.Text = UnavailableReply
	}
	return turn
}

func (s *Session) exchange(ctx context.Context, prompt string, h Handlers, turn *Turn) error {
	if s.conv == nil {
		conv, err := s.backend.Open(ctx, Setup{
			Instruction: s.cur.Instruction(),
			Tools:       s.cur.Tools(),
			Grounding:   s.cur.Grounded(),
		})
		if err != nil {
			return fmt.Errorf("open conversation: %w", err)
		}
		s.conv = conv
	}

	reply, err := s.conv.Send(ctx, prompt)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	var b strings.Builder
	writeSources(&b, reply.Sources)

	if len(reply.Calls) == 0 {
		b.WriteString(reply.Text)
		turn.Text = b.String()
		return nil
	}

	results := make([]ToolResult, 0, len(reply.Calls))
	for _, call := range reply.Calls {
		out := s.call(call, h)
		b.WriteString(out.fragment)
		if out.notice != "" {
			turn.Notices = append(turn.Notices, out.notice)
		}
		results = append(results, ToolResult{ID: call.ID, Name: call.Name, Result: out.ack})
	}

	final, err := s.conv.Respond(ctx, results)
	if err != nil {
		return fmt.Errorf("send tool results: %w", err)
	}
	b.WriteString(final.Text)
	turn.Text = b.String()
	return nil
}

func (s *Session) call(call ToolCall, h Handlers) outcome {
	a, err := Decode(call.Name, call.Args)
	if err != nil {
		s.logger.Warn("tool call rejected", zap.String("tool", call.Name), zap.Error(err))
		return outcome{ack: unavailableAck}
	}
	out := h.run(a)
	s.logger.Info("tool call", zap.String("tool", call.Name), zap.Bool("ran", out.ran))
	return out
}

func writeSources(b *strings.Builder, sources []Source) {
	if len(sources) == 0 {
		return
	}
	b.WriteString("\n\n[Sources Found:]\n")
	for _, src := range sources {
		if src.URI != "" {
			fmt.Fprintf(b, "- %s: %s\n", src.Title, src.URI)
		}
	}
	b.WriteString("\n")
}
