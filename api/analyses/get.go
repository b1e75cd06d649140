package analyses

import (
	"errors"

	"github.com/repolens/repolens/api/web"
	"github.com/repolens/repolens/domains/analysis"
	"go.uber.org/zap"
)

// Get handles GET /v1/analyses/:owner/:repo?ref=. It reads the durable tier
// directly and never triggers a new analysis.
func (h *Handler) Get(c web.Context) error {
	ctx := c.Request().Context()

	key := analysis.Key{
		Owner: c.Param("owner"),
		Repo:  c.Param("repo"),
		Ref:   c.QueryParam("ref"),
	}
	if key.Owner == "" || key.Repo == "" {
		return c.BadRequest("owner and repo are required")
	}
	if key.Ref == "" {
		return c.BadRequest("ref query parameter is required")
	}

	result, err := h.store.FindByKey(ctx, key)
	if errors.Is(err, analysis.ErrNotFound) {
		return c.NotFound("analysis not found")
	}
	if err != nil {
		c.L.Error("failed to load analysis", zap.Error(err))
		return c.InternalError("failed to load analysis")
	}

	return c.OK(toResponse(&analysis.Outcome{Result: result, CacheHit: true}))
}
