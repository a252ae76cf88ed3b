package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/sitebrief/internal/config"
	"github.com/xxxsen/sitebrief/internal/model"
	"github.com/xxxsen/sitebrief/internal/pkg/response"
	"github.com/xxxsen/sitebrief/internal/service"
)

type CrawlHandler struct {
	crawls   *service.CrawlService
	defaults config.CrawlConfig
}

func NewCrawlHandler(crawls *service.CrawlService, defaults config.CrawlConfig) *CrawlHandler {
	return &CrawlHandler{crawls: crawls, defaults: defaults}
}

// Crawl handles GET /crawl?url=&depth=&pages=. The run is synchronous: the
// response carries every page document plus the roll-up summary.
func (h *CrawlHandler) Crawl(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		response.Error(c, http.StatusBadRequest, "invalid", "url is required")
		return
	}
	depth, ok := intQuery(c, "depth", h.defaults.MaxDepth)
	if !ok || depth < 0 {
		response.Error(c, http.StatusBadRequest, "invalid", "depth must be a non-negative integer")
		return
	}
	pages, ok := intQuery(c, "pages", h.defaults.MaxPages)
	if !ok || pages <= 0 {
		response.Error(c, http.StatusBadRequest, "invalid", "pages must be a positive integer")
		return
	}

	result, err := h.crawls.CrawlAndIndex(c.Request.Context(), model.CrawlRequest{
		URL:      rawURL,
		MaxDepth: depth,
		MaxPages: pages,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
