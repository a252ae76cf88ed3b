package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/sitebrief/internal/pkg/response"
	"github.com/xxxsen/sitebrief/internal/service"
)

type SearchHandler struct {
	search *service.SearchService
}

func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search handles GET /search?q=&site=&k=.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.Error(c, http.StatusBadRequest, "invalid", "q is required")
		return
	}
	topK, ok := intQuery(c, "k", 0)
	if !ok || topK < 0 {
		response.Error(c, http.StatusBadRequest, "invalid", "k must be a non-negative integer")
		return
	}
	hits, err := h.search.Search(c.Request.Context(), query, topK, c.Query("site"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"results": hits})
}
