package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"dairy-assistant-be/pkg/llm"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

const defaultBaseURL = "https://generativelanguage.googleapis.com"

type Provider struct {
	apiKey    string
	modelName string
	baseURL   string
	client    *http.Client
}

var _ llm.Provider = &Provider{}

func NewProvider(apiKey, modelName string) *Provider {
	return &Provider{
		apiKey:    apiKey,
		modelName: modelName,
		baseURL:   defaultBaseURL,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	history := []llm.Message{{Role: llm.RoleUser, Content: prompt}}
	return p.generate(ctx, "", history, opts...)
}

func (p *Provider) NewChat(systemInstruction string, opts ...llm.Option) llm.ChatSession {
	return &chatSession{
		provider: p,
		system:   systemInstruction,
		opts:     opts,
	}
}

func (p *Provider) generate(ctx context.Context, system string, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}

	contents := make([]geminiContent, len(history))
	for i, msg := range history {
		contents[i] = geminiContent{
			Parts: []geminiPart{{Text: msg.Content}},
			Role:  msg.Role,
		}
	}

	payload := geminiRequest{
		Contents: contents,
	}
	if system != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}
	if options.Temperature != 0 || options.MaxOutputTokens != 0 {
		payload.GenerationConfig = &geminiGenerationConfig{
			Temperature:     options.Temperature,
			MaxOutputTokens: options.MaxOutputTokens,
		}
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf(
		"%s/v1beta/models/%s:generateContent",
		p.baseURL,
		p.modelName,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}

	req.Header.Set("x-goog-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrUnavailable, err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrUnavailable, err)
	}

	if res.StatusCode != http.StatusOK {
		return "", classifyStatus(res.StatusCode, resBody)
	}

	var geminiRes geminiResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", err
	}

	if len(geminiRes.Candidates) == 0 || len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}

// classifyStatus maps HTTP failures onto the llm error taxonomy so the
// orchestrator can pick the right fallback answer.
func classifyStatus(status int, body []byte) error {
	switch {
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: status %d, body %s", llm.ErrRejected, status, string(body))
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d, body %s", llm.ErrUnavailable, status, string(body))
	default:
		return fmt.Errorf("gemini error: status %d, body %s", status, string(body))
	}
}

// chatSession accumulates history across Send calls. Sends for the same
// session are serialized by the mutex; a failed send leaves the history
// without the failed turn.
type chatSession struct {
	provider *Provider
	system   string
	opts     []llm.Option

	mu      sync.Mutex
	history []llm.Message
}

func (s *chatSession) Send(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(append([]llm.Message{}, s.history...), llm.Message{Role: llm.RoleUser, Content: text})

	reply, err := s.provider.generate(ctx, s.system, history, s.opts...)
	if err != nil {
		return "", err
	}

	s.history = append(history, llm.Message{Role: llm.RoleModel, Content: reply})
	return reply, nil
}
