package analyses

import (
	"github.com/labstack/echo/v4"
	"github.com/repolens/repolens/api/web"
	"github.com/repolens/repolens/config"
	"github.com/repolens/repolens/domains/analysis"
	"github.com/repolens/repolens/libs/llm"
	"github.com/repolens/repolens/libs/redcache"
	"go.uber.org/zap"
)

// Handler holds the wired pipeline for the analysis endpoints.
type Handler struct {
	pipeline *analysis.Pipeline
	store    analysis.DurableStore
}

func Configure(e *echo.Echo, l *zap.Logger) {
	store := analysis.NewPGStore()

	h := &Handler{
		pipeline: analysis.NewPipeline(l, llm.New(), redcache.Cache{}, store, analysis.Config{
			MaxTokensPerBatch: config.Analysis.MaxTokensPerBatch(),
			MaxPromptTokens:   config.Analysis.MaxPromptTokens(),
			MaxFileSizeBytes:  config.Analysis.MaxFileSizeBytes(),
			CacheTtl:          config.Analysis.CacheTtl(),
		}),
		store: store,
	}

	e.POST("/v1/repos/:owner/:repo/analyze", web.Wrap(h.Analyze, l))
	e.GET("/v1/analyses/:owner/:repo", web.Wrap(h.Get, l))
}
