package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/sitebrief/internal/ai"
	"github.com/xxxsen/sitebrief/internal/config"
	"github.com/xxxsen/sitebrief/internal/crawl"
	"github.com/xxxsen/sitebrief/internal/embedcache"
	"github.com/xxxsen/sitebrief/internal/handler"
	"github.com/xxxsen/sitebrief/internal/middleware"
	"github.com/xxxsen/sitebrief/internal/service"
	"github.com/xxxsen/sitebrief/internal/store"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "sitebrief",
		Short: "crawl, summarize and answer over web sites",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run sitebrief server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("store", cfg.Store.Type),
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("embed_model", cfg.AI.EmbedModel),
	)

	// A missing API key fails here, before the server opens its port.
	aiProvider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}
	embedder := ai.NewEmbedder(aiProvider, cfg.AI.EmbedModel)
	if cfg.AI.CacheSize > 0 {
		embedder = embedcache.WrapLruCacheToEmbedder(
			embedder,
			cfg.AI.CacheSize,
			time.Duration(cfg.AI.CacheTTLHours)*time.Hour,
		)
	}
	manager := ai.NewManager(
		ai.NewGenerator(aiProvider, cfg.AI.Model),
		embedder,
		ai.ManagerConfig{Timeout: cfg.AI.Timeout, MaxInputChars: cfg.AI.MaxInputChars},
	)

	docStore, err := store.New(cfg.Store, embedder, cfg.AI.EmbedDim)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer docStore.Close()

	engine := crawl.NewEngine(crawl.Config{
		RequestTimeout: time.Duration(cfg.Crawl.RequestTimeoutSecs) * time.Second,
	})

	crawlService := service.NewCrawlService(engine, manager, docStore)
	searchService := service.NewSearchService(docStore)
	chatService := service.NewChatService(searchService, manager)

	deps := handler.RouterDeps{
		Crawl:           handler.NewCrawlHandler(crawlService, cfg.Crawl),
		Search:          handler.NewSearchHandler(searchService),
		Chat:            handler.NewChatHandler(chatService),
		CrawlRateWindow: time.Duration(cfg.Crawl.RateLimitSecs) * time.Second,
	}

	web, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := web.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
