package analyses

import (
	"errors"
	"net/http"

	"github.com/repolens/repolens/api/web"
	"github.com/repolens/repolens/domains/analysis"
	"github.com/repolens/repolens/libs/gitrepo"
	"go.uber.org/zap"
)

// AnalyzeResponse is the response for a completed analysis run.
type AnalyzeResponse struct {
	Owner            string `json:"owner"`
	Repo             string `json:"repo"`
	Ref              string `json:"ref"`
	Summary          string `json:"summary"`
	Analysis         string `json:"analysis"`
	FilesAnalyzed    int    `json:"files_analyzed"`
	FilesSkipped     int    `json:"files_skipped"`
	BatchesProcessed int    `json:"batches_processed"`
	BatchesFailed    int    `json:"batches_failed"`
	Cached           bool   `json:"cached"`
	CreatedAt        int64  `json:"created_at"`
	UpdatedAt        int64  `json:"updated_at"`
}

// Analyze handles POST /v1/repos/:owner/:repo/analyze. The optional ref query
// parameter selects a branch, tag or commit SHA; force=true bypasses cached
// results.
func (h *Handler) Analyze(c web.Context) error {
	ctx := c.Request().Context()

	owner := c.Param("owner")
	repo := c.Param("repo")
	if owner == "" || repo == "" {
		return c.BadRequest("owner and repo are required")
	}

	token, err := c.BearerToken()
	if err != nil {
		return c.Unauthorized(err.Error())
	}

	force := c.QueryParam("force") == "true"

	snapshot, err := gitrepo.Fetch(ctx, c.L, gitrepo.FetchParams{
		Owner: owner,
		Repo:  repo,
		Ref:   c.QueryParam("ref"),
		Token: token,
	})
	if err != nil {
		c.L.Error("failed to fetch repository snapshot", zap.Error(err))
		return c.Error(http.StatusBadGateway, "failed to fetch repository")
	}

	files := analysis.NewFileSet()
	for _, f := range snapshot.Files {
		files.Add(f.Path, f.Content)
	}

	outcome, err := h.pipeline.Analyze(ctx, analysis.Request{
		Owner: owner,
		Repo:  repo,
		Ref:   snapshot.ResolvedRef,
		Files: files,
		Force: force,
	})
	switch {
	case errors.Is(err, analysis.ErrOracleNotConfigured):
		c.L.Error("analysis rejected", zap.Error(err))
		return c.InternalError("analysis backend is not configured")
	case errors.Is(err, analysis.ErrNoAnalyzableFiles):
		return c.Error(http.StatusUnprocessableEntity, "repository contains no analyzable files")
	case errors.Is(err, analysis.ErrAllBatchesFailed):
		c.L.Error("analysis failed", zap.Error(err))
		return c.Error(http.StatusBadGateway, "analysis backend failed for every batch")
	case err != nil:
		c.L.Error("analysis failed", zap.Error(err))
		return c.InternalError("failed to analyze repository")
	}

	return c.OK(toResponse(outcome))
}

func toResponse(outcome *analysis.Outcome) AnalyzeResponse {
	r := outcome.Result
	return AnalyzeResponse{
		Owner:            r.Owner,
		Repo:             r.Repo,
		Ref:              r.Ref,
		Summary:          r.Summary,
		Analysis:         r.FullReport,
		FilesAnalyzed:    r.FilesAnalyzed,
		FilesSkipped:     r.FilesSkipped,
		BatchesProcessed: r.BatchesProcessed,
		BatchesFailed:    r.BatchesFailed,
		Cached:           outcome.CacheHit,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
