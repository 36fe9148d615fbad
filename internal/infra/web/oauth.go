// File: internal/infra/web/oauth.go
package web

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"discord-companion-bot/internal/config"
)

const stateCookieName = "oauth_state"

var discordEndpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// DiscordIdentity is the subset of /users/@me the dashboard needs.
type DiscordIdentity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// OAuthFlow runs the authorization-code dance against Discord and
// resolves the resulting token to a user identity.
type OAuthFlow struct {
	conf    *oauth2.Config
	apiBase string // override in tests
	secure  bool
}

func NewOAuthFlow(cfg config.DashboardConfig) *OAuthFlow {
	return &OAuthFlow{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"identify"},
			Endpoint:     discordEndpoint,
		},
		apiBase: "https://discord.com/api",
		secure:  cfg.SecureCookie,
	}
}

// Begin stores an anti-CSRF state cookie and returns the authorize URL.
func (f *OAuthFlow) Begin(w http.ResponseWriter) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(buf)
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return f.conf.AuthCodeURL(state), nil
}

// Complete validates the state, exchanges the code, and fetches the
// Discord identity behind the token.
func (f *OAuthFlow) Complete(ctx context.Context, r *http.Request) (*DiscordIdentity, error) {
	state := r.URL.Query().Get("state")
	c, err := r.Cookie(stateCookieName)
	if err != nil || state == "" || c.Value != state {
		return nil, errors.New("oauth state mismatch")
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		return nil, errors.New("missing authorization code")
	}

	token, err := f.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return f.identity(ctx, token)
}

func (f *OAuthFlow) identity(ctx context.Context, token *oauth2.Token) (*DiscordIdentity, error) {
	client := f.conf.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.apiBase+"/users/@me", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity fetch returned %d", resp.StatusCode)
	}
	var id DiscordIdentity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, err
	}
	if id.ID == "" {
		return nil, errors.New("identity response missing id")
	}
	return &id, nil
}
