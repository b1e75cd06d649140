// Package github wraps the small slice of the GitHub OAuth and REST API the
// service needs: building the authorize URL, exchanging the callback code for
// an access token, and listing the token owner's repositories.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/repolens/repolens/config"
)

const (
	authorizeURL   = "https://github.com/login/oauth/authorize"
	accessTokenURL = "https://github.com/login/oauth/access_token"
	apiBaseURL     = "https://api.github.com"

	oauthScopes = "read:user user:email public_repo"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Repo is one entry from the repository listing.
type Repo struct {
	Owner string `json:"owner"`
	Name  string `json:"repo"`
}

// AuthorizeURL builds the GitHub OAuth authorize URL for the given CSRF state.
func AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("client_id", config.Github.ClientId())
	params.Set("redirect_uri", config.Github.AppUrl()+"/v1/auth/callback")
	params.Set("scope", oauthScopes)
	params.Set("state", state)
	return authorizeURL + "?" + params.Encode()
}

// ExchangeCode trades an OAuth callback code for an access token.
func ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", config.Github.ClientId())
	form.Set("client_secret", config.Github.ClientSecret())
	form.Set("code", code)
	form.Set("redirect_uri", config.Github.AppUrl()+"/v1/auth/callback")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, accessTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange returned status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("no access token in response")
	}

	return body.AccessToken, nil
}

// ListRepos lists the public repositories visible to the token owner.
func ListRepos(ctx context.Context, token string) ([]Repo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		apiBaseURL+"/user/repos?visibility=public", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("repo listing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("repo listing returned status %d: %s", resp.StatusCode, string(body))
	}

	var raw []struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode repo listing: %w", err)
	}

	repos := make([]Repo, len(raw))
	for i, r := range raw {
		repos[i] = Repo{Owner: r.Owner.Login, Name: r.Name}
	}
	return repos, nil
}
