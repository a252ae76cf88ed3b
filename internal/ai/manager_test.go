package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingGenerator struct {
	lastPrompt string
	output     string
}

func (g *recordingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	return g.output, nil
}

func TestSummarizePage_PromptNamesURL(t *testing.T) {
	gen := &recordingGenerator{output: "a summary"}
	mgr := NewManager(gen, nil, ManagerConfig{})

	got, err := mgr.SummarizePage(context.Background(), "https://a.test/page", "cleaned text")
	require.NoError(t, err)
	require.Equal(t, "a summary", got)
	require.Contains(t, gen.lastPrompt, "https://a.test/page")
	require.Contains(t, gen.lastPrompt, "cleaned text")
}

func TestSummarizeRun_PromptCarriesSummaries(t *testing.T) {
	gen := &recordingGenerator{output: "overall"}
	mgr := NewManager(gen, nil, ManagerConfig{})

	_, err := mgr.SummarizeRun(context.Background(), "first\n\nsecond")
	require.NoError(t, err)
	require.Contains(t, gen.lastPrompt, "first\n\nsecond")
	require.Contains(t, gen.lastPrompt, "overall summary")
}

func TestAnswer_PromptDemandsContextOnly(t *testing.T) {
	gen := &recordingGenerator{output: "answer"}
	mgr := NewManager(gen, nil, ManagerConfig{})

	_, err := mgr.Answer(context.Background(), "what is it?", "some context")
	require.NoError(t, err)
	require.Contains(t, gen.lastPrompt, "ONLY the context")
	require.Contains(t, gen.lastPrompt, "say the information is not available")
	require.Contains(t, gen.lastPrompt, "QUESTION: what is it?")
	require.Contains(t, gen.lastPrompt, "some context")
}

func TestGenerate_EmptyResponseIsError(t *testing.T) {
	mgr := NewManager(&recordingGenerator{output: "   "}, nil, ManagerConfig{})
	_, err := mgr.SummarizeRun(context.Background(), "text")
	require.Error(t, err)
}

func TestCapInput_BoundsVariablePart(t *testing.T) {
	gen := &recordingGenerator{output: "ok"}
	mgr := NewManager(gen, nil, ManagerConfig{MaxInputChars: 100})

	question := "short question"
	_, err := mgr.Answer(context.Background(), question, strings.Repeat("x", 10000))
	require.NoError(t, err)
	// The context is capped but the question survives.
	require.Less(t, len(gen.lastPrompt), 1000)
	require.Contains(t, gen.lastPrompt, question)
}

func TestNewProvider_UnknownName(t *testing.T) {
	_, err := NewProvider("nope", map[string]string{})
	require.Error(t, err)
	_, err = NewProvider("", nil)
	require.Error(t, err)
}

func TestGeminiFactory_RequiresAPIKey(t *testing.T) {
	_, err := NewProvider("gemini", map[string]string{"api_key": ""})
	require.Error(t, err)

	provider, err := NewProvider("gemini", map[string]string{"api_key": "k"})
	require.NoError(t, err)
	require.Equal(t, "gemini", provider.Name())
}
