package llm

import (
	"context"
	"errors"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user" or "model"
	Content string
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Generation failure classes. The orchestrator maps each to a fixed
// user-facing fallback answer, so providers must wrap their errors
// with one of these where the cause is known.
var (
	// ErrRejected means the model refused the input itself (bad request).
	ErrRejected = errors.New("llm: input rejected")
	// ErrUnavailable means a transient service or network failure.
	ErrUnavailable = errors.New("llm: service unavailable")
)

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature     float64
	MaxOutputTokens int
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxOutputTokens(n int) Option {
	return func(o *Options) {
		o.MaxOutputTokens = n
	}
}

// ChatSession is a stateful multi-turn conversation bound to one system
// instruction. Implementations accumulate history across Send calls.
type ChatSession interface {
	Send(ctx context.Context, text string) (string, error)
}

// Provider defines the contract for any LLM backend
type Provider interface {
	// Generate sends a single prompt with no conversation state.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// NewChat opens a chat session bound to the given system instruction.
	// Opening a session performs no network call.
	NewChat(systemInstruction string, options ...Option) ChatSession
}
