package repos

import (
	"github.com/repolens/repolens/api/web"
	"github.com/repolens/repolens/libs/github"
	"go.uber.org/zap"
)

// ListResponse is the response for listing repositories
type ListResponse struct {
	Repos []github.Repo `json:"repos"`
}

// List handles GET /v1/repos and lists the token owner's public repositories.
func List(c web.Context) error {
	token, err := c.BearerToken()
	if err != nil {
		return c.Unauthorized(err.Error())
	}

	repos, err := github.ListRepos(c.Request().Context(), token)
	if err != nil {
		c.L.Error("failed to list repos", zap.Error(err))
		return c.InternalError("failed to list repositories")
	}

	return c.OK(ListResponse{Repos: repos})
}
