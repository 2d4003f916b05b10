package rewrite

import (
	"context"
	"errors"
	"testing"

	"dairy-assistant-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply      string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.reply, f.err
}

func (f *fakeProvider) NewChat(string, ...llm.Option) llm.ChatSession {
	panic("not used")
}

func history() []llm.Message {
	return []llm.Message{
		{Role: llm.RoleUser, Content: "What is mastitis?"},
		{Role: llm.RoleModel, Content: "An udder infection."},
	}
}

func TestRewriteNoHistorySkipsModel(t *testing.T) {
	provider := &fakeProvider{}
	rewriter := NewRewriter(provider, nil, 0.1, 64)

	got := rewriter.Rewrite(context.Background(), "how do I treat it?", nil)

	assert.Equal(t, "how do I treat it?", got)
	assert.Zero(t, provider.calls)
}

func TestRewriteUsesModelOutput(t *testing.T) {
	provider := &fakeProvider{reply: `"How do I treat mastitis?"` + "\n"}
	rewriter := NewRewriter(provider, nil, 0.1, 64)

	got := rewriter.Rewrite(context.Background(), "how do I treat it?", history())

	assert.Equal(t, "How do I treat mastitis?", got)
	require.Equal(t, 1, provider.calls)
	assert.Contains(t, provider.lastPrompt, "User: What is mastitis?")
	assert.Contains(t, provider.lastPrompt, "Assistant: An udder infection.")
	assert.Contains(t, provider.lastPrompt, "User Input: how do I treat it?")
}

func TestRewriteModelFailureReturnsOriginal(t *testing.T) {
	provider := &fakeProvider{err: errors.New("boom")}
	rewriter := NewRewriter(provider, nil, 0.1, 64)

	got := rewriter.Rewrite(context.Background(), "and the second one?", history())

	assert.Equal(t, "and the second one?", got)
}

func TestRewriteEmptyModelOutputReturnsOriginal(t *testing.T) {
	provider := &fakeProvider{reply: `  ""  `}
	rewriter := NewRewriter(provider, nil, 0.1, 64)

	got := rewriter.Rewrite(context.Background(), "and then?", history())

	assert.Equal(t, "and then?", got)
}
