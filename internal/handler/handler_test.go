package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/sitebrief/internal/config"
	"github.com/xxxsen/sitebrief/internal/crawl"
	"github.com/xxxsen/sitebrief/internal/model"
	"github.com/xxxsen/sitebrief/internal/service"
	"github.com/xxxsen/sitebrief/internal/store"
)

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (fixedEmbedder) ModelName() string { return "fixed-embed" }

type fakeFetcher struct {
	pages []crawl.Page
	err   error
}

func (f *fakeFetcher) Run(ctx context.Context, startURL string, maxDepth, maxPages int) ([]crawl.Page, error) {
	return f.pages, f.err
}

type fakeSummarizer struct{}

func (fakeSummarizer) SummarizePage(ctx context.Context, pageURL string, text string) (string, error) {
	return "summary of " + pageURL, nil
}

func (fakeSummarizer) SummarizeRun(ctx context.Context, combined string) (string, error) {
	return "overall summary", nil
}

type fakeAnswerer struct{}

func (fakeAnswerer) Answer(ctx context.Context, question string, contextText string) (string, error) {
	return "generated answer", nil
}

func newTestRouter(t *testing.T, fetcher service.Fetcher) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore(fixedEmbedder{}, 3)
	crawlService := service.NewCrawlService(fetcher, fakeSummarizer{}, st)
	searchService := service.NewSearchService(st)
	chatService := service.NewChatService(searchService, fakeAnswerer{})

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), RouterDeps{
		Crawl:  NewCrawlHandler(crawlService, config.CrawlConfig{MaxDepth: 2, MaxPages: 5}),
		Search: NewSearchHandler(searchService),
		Chat:   NewChatHandler(chatService),
	})
	return router, st
}

func doGet(router *gin.Engine, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCrawl_RequiresURL(t *testing.T) {
	router, _ := newTestRouter(t, &fakeFetcher{})
	rec := doGet(router, "/api/v1/crawl")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.Contains(t, body, "error")
}

func TestCrawl_RejectsBadBounds(t *testing.T) {
	router, _ := newTestRouter(t, &fakeFetcher{})
	require.Equal(t, http.StatusBadRequest, doGet(router, "/api/v1/crawl?url=https://a.test/&depth=x").Code)
	require.Equal(t, http.StatusBadRequest, doGet(router, "/api/v1/crawl?url=https://a.test/&pages=0").Code)
}

func TestCrawl_HappyPath(t *testing.T) {
	router, st := newTestRouter(t, &fakeFetcher{pages: []crawl.Page{
		{URL: "https://a.test/", HTML: "<p>home</p>"},
		{URL: "https://a.test/x", HTML: "<p>x</p>"},
	}})

	rec := doGet(router, "/api/v1/crawl?url=https://a.test/&depth=1&pages=2")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	pages, ok := data["pages"].([]interface{})
	require.True(t, ok)
	require.LessOrEqual(t, len(pages), 2)
	for _, raw := range pages {
		page := raw.(map[string]interface{})
		require.NotEmpty(t, page["id"])
		require.NotEmpty(t, page["summary"])
	}
	final, ok := data["final_summary"].(map[string]interface{})
	require.True(t, ok)
	require.NotEmpty(t, final["id"])
	require.Equal(t, "overall summary", final["summary"])

	var finals int
	for _, doc := range st.Docs() {
		if doc.Kind == model.KindFinal {
			finals++
		}
	}
	require.Equal(t, 1, finals)
}

func TestCrawl_FailureMapsTo500(t *testing.T) {
	router, _ := newTestRouter(t, &fakeFetcher{err: fmt.Errorf("engine down")})
	rec := doGet(router, "/api/v1/crawl?url=https://a.test/")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]interface{})
	require.Contains(t, errObj["message"], "engine down")
}

func TestSearch_RequiresQuery(t *testing.T) {
	router, _ := newTestRouter(t, &fakeFetcher{})
	require.Equal(t, http.StatusBadRequest, doGet(router, "/api/v1/search").Code)
}

func TestSearch_ReturnsResults(t *testing.T) {
	router, st := newTestRouter(t, &fakeFetcher{})
	_, err := st.Save(context.Background(), "https://a.test/", "https://a.test/p", model.KindPage, "stored summary")
	require.NoError(t, err)

	rec := doGet(router, "/api/v1/search?q=stored+summary&k=3")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	results := data["results"].([]interface{})
	require.Len(t, results, 1)
	hit := results[0].(map[string]interface{})
	require.Equal(t, "stored summary", hit["summary"])
	require.Equal(t, model.KindPage, hit["kind"])
	require.Contains(t, hit, "score")
	require.Contains(t, hit, "created_at")
}

func TestSearch_EmptyIndexIsEmptyList(t *testing.T) {
	router, _ := newTestRouter(t, &fakeFetcher{})
	rec := doGet(router, "/api/v1/search?q=anything")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	require.Empty(t, data["results"])
}

func TestChat_RequiresQuestion(t *testing.T) {
	router, _ := newTestRouter(t, &fakeFetcher{})
	require.Equal(t, http.StatusBadRequest, doGet(router, "/api/v1/chat").Code)
}

func TestChat_ReturnsAnswerAndSources(t *testing.T) {
	router, st := newTestRouter(t, &fakeFetcher{})
	_, err := st.Save(context.Background(), "https://a.test/", "https://a.test/p", model.KindPage, "stored summary")
	require.NoError(t, err)

	rec := doGet(router, "/api/v1/chat?q=question&k=2")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	require.Equal(t, "generated answer", data["answer"])
	sources := data["sources"].([]interface{})
	require.Len(t, sources, 1)
}
