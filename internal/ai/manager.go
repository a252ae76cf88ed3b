package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type ManagerConfig struct {
	Timeout       int
	MaxInputChars int
}

// Manager owns the prompt templates and applies the per-call timeout. Every
// method issues exactly one outbound request; there is no retry.
type Manager struct {
	generator IGenerator
	embedder  IEmbedder
	cfg       ManagerConfig
}

func NewManager(generator IGenerator, embedder IEmbedder, cfg ManagerConfig) *Manager {
	return &Manager{
		generator: generator,
		embedder:  embedder,
		cfg:       cfg,
	}
}

func (m *Manager) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if m.embedder == nil {
		return nil, fmt.Errorf("embedder not configured")
	}
	return m.embedder.Embed(ctx, text, taskType)
}

// SummarizePage summarizes one cleaned page, naming the page URL in the
// prompt so the model can anchor the summary.
func (m *Manager) SummarizePage(ctx context.Context, pageURL string, text string) (string, error) {
	if m.generator == nil {
		return "", fmt.Errorf("generator not configured")
	}
	prompt := fmt.Sprintf(`You are a helpful assistant.
Summarize this web page from %s into a concise paragraph.
- Keep factual accuracy and key points.
- Output ONLY the summary text.

CONTENT:
%s`, pageURL, m.capInput(text))
	return m.generateText(ctx, prompt)
}

// SummarizeRun rolls the per-page summaries of one crawl run into a single
// overall summary.
func (m *Manager) SummarizeRun(ctx context.Context, combined string) (string, error) {
	if m.generator == nil {
		return "", fmt.Errorf("generator not configured")
	}
	prompt := fmt.Sprintf(`You are a helpful assistant.
Create a concise overall summary of these page summaries.
- Keep factual accuracy and key points.
- Output ONLY the summary text.

SUMMARIES:
%s`, m.capInput(combined))
	return m.generateText(ctx, prompt)
}

// Answer answers a question constrained to the retrieved context. The prompt
// instructs the model to decline when the context does not contain the
// answer.
func (m *Manager) Answer(ctx context.Context, question string, contextText string) (string, error) {
	if m.generator == nil {
		return "", fmt.Errorf("generator not configured")
	}
	prompt := fmt.Sprintf(`You are a helpful assistant. Use ONLY the context below to answer the question.

CONTEXT:
%s

QUESTION: %s

Answer concisely. If the answer is not in the context, say the information is not available.`, m.capInput(contextText), question)
	return m.generateText(ctx, prompt)
}

// capInput bounds the variable part of a prompt so an oversized page or
// context block cannot blow the request.
func (m *Manager) capInput(text string) string {
	max := m.cfg.MaxInputChars
	if max <= 0 || len(text) <= max {
		return text
	}
	return text[:max]
}

func (m *Manager) generateText(ctx context.Context, prompt string) (string, error) {
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.cfg.Timeout)*time.Second)
		defer cancel()
	}
	resp, err := m.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp)
	if text == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return text, nil
}

func (m *Manager) EmbeddingModelName() string {
	if m.embedder == nil {
		return ""
	}
	return m.embedder.ModelName()
}
