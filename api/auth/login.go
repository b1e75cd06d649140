package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/repolens/repolens/api/web"
	"github.com/repolens/repolens/libs/github"
)

// LoginURLResponse carries the GitHub authorize URL for browser-less clients.
type LoginURLResponse struct {
	AuthURL string `json:"auth_url"`
}

// Login handles GET /v1/auth/login and redirects to GitHub's authorize page.
func Login(c web.Context) error {
	return c.Redirect(http.StatusFound, github.AuthorizeURL(newState()))
}

// LoginURL handles GET /v1/auth/login/url and returns the authorize URL as JSON.
func LoginURL(c web.Context) error {
	return c.OK(LoginURLResponse{AuthURL: github.AuthorizeURL(newState())})
}

// newState generates a random CSRF state token for the OAuth round trip.
func newState() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "state"
	}
	return hex.EncodeToString(buf)
}
