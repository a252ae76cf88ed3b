package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/sitebrief/internal/middleware"
)

type RouterDeps struct {
	Crawl  *CrawlHandler
	Search *SearchHandler
	Chat   *ChatHandler
	// CrawlRateWindow throttles crawl runs per client; zero disables it.
	CrawlRateWindow time.Duration
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/crawl", middleware.RateLimit(deps.CrawlRateWindow), deps.Crawl.Crawl)
	api.GET("/search", deps.Search.Search)
	api.GET("/chat", deps.Chat.Chat)
}
