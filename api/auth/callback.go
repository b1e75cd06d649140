package auth

import (
	"github.com/repolens/repolens/api/web"
	"github.com/repolens/repolens/libs/github"
	"go.uber.org/zap"
)

// CallbackResponse carries the exchanged access token.
type CallbackResponse struct {
	AccessToken string `json:"access_token"`
}

// Callback handles GET /v1/auth/callback, called by GitHub after the user
// authorized, and exchanges the code for an access token.
func Callback(c web.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return c.BadRequest("no code provided")
	}

	token, err := github.ExchangeCode(c.Request().Context(), code)
	if err != nil {
		c.L.Error("oauth code exchange failed", zap.Error(err))
		return c.BadRequest("failed to exchange authorization code")
	}

	return c.OK(CallbackResponse{AccessToken: token})
}
