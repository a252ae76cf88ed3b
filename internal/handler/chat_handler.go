package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/sitebrief/internal/pkg/response"
	"github.com/xxxsen/sitebrief/internal/service"
)

type ChatHandler struct {
	chat *service.ChatService
}

func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Chat handles GET /chat?q=&site=&k=: retrieval-augmented answering over
// stored summaries. Sources are returned verbatim for traceability.
func (h *ChatHandler) Chat(c *gin.Context) {
	question := c.Query("q")
	if question == "" {
		response.Error(c, http.StatusBadRequest, "invalid", "q is required")
		return
	}
	topK, ok := intQuery(c, "k", 0)
	if !ok || topK < 0 {
		response.Error(c, http.StatusBadRequest, "invalid", "k must be a non-negative integer")
		return
	}
	answer, sources, err := h.chat.Answer(c.Request.Context(), question, topK, c.Query("site"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"answer": answer, "sources": sources})
}
