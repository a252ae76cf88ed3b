package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/sitebrief/internal/model"
)

// Answerer generates an answer constrained to retrieved context.
type Answerer interface {
	Answer(ctx context.Context, question string, contextText string) (string, error)
}

// ChatService answers a question from stored summaries: retrieve, render the
// hits as labeled context blocks, generate once. Answers are never cached;
// every call re-retrieves and re-generates.
type ChatService struct {
	search   *SearchService
	answerer Answerer
}

func NewChatService(search *SearchService, answerer Answerer) *ChatService {
	return &ChatService{search: search, answerer: answerer}
}

func (s *ChatService) Answer(ctx context.Context, question string, topK int, site string) (string, []model.SearchHit, error) {
	hits, err := s.search.Search(ctx, question, topK, site)
	if err != nil {
		return "", nil, err
	}
	answer, err := s.answerer.Answer(ctx, question, renderContext(hits))
	if err != nil {
		return "", nil, fmt.Errorf("generate answer: %w", err)
	}
	return answer, hits, nil
}

func renderContext(hits []model.SearchHit) string {
	blocks := make([]string, 0, len(hits))
	for _, hit := range hits {
		blocks = append(blocks, fmt.Sprintf("- [kind:%s] %s\n%s", hit.Kind, hit.URL, hit.Summary))
	}
	return strings.Join(blocks, "\n\n")
}
