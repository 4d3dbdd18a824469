// Package auth handles the Google OAuth flow. Tokens live in HttpOnly
// cookies on the user's browser; the server keeps no session state.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Cookie names.
const (
	AccessTokenCookie  = "google_access_token"
	RefreshTokenCookie = "google_refresh_token"
	StateCookie        = "google_oauth_state"
)

const (
	refreshTokenMaxAge = 30 * 24 * time.Hour
	stateMaxAge        = 10 * time.Minute
)

// Scopes requested from Google.
var Scopes = []string{
	"https://www.googleapis.com/auth/presentations",
	"https://www.googleapis.com/auth/drive",
}

var (
	ErrNotAuthenticated = errors.New("not authenticated with Google")
	ErrNotConfigured    = errors.New("Google OAuth client not configured")
)

// Options configures an Authenticator.
type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Secure marks cookies Secure; set when served over https.
	Secure bool
	// Fallback is used when the request carries no user token, typically a
	// service account. Nil means user login is required.
	Fallback oauth2.TokenSource
	// Endpoint overrides Google's OAuth endpoint.
	Endpoint *oauth2.Endpoint
}

// Authenticator runs the OAuth handshake and turns request cookies into
// token sources.
type Authenticator struct {
	oauth    *oauth2.Config
	secure   bool
	fallback oauth2.TokenSource
}

// New creates an Authenticator.
func New(opts Options) *Authenticator {
	endpoint := google.Endpoint
	if opts.Endpoint != nil {
		endpoint = *opts.Endpoint
	}
	return &Authenticator{
		oauth: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		secure:   opts.Secure,
		fallback: opts.Fallback,
	}
}

// Configured reports whether a client id and secret are set.
func (a *Authenticator) Configured() bool {
	return a.oauth.ClientID != "" && a.oauth.ClientSecret != ""
}

// ServiceAccountTokenSource reads a Google credentials JSON file.
func ServiceAccountTokenSource(ctx context.Context, path string) (oauth2.TokenSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return creds.TokenSource, nil
}

// TokenSource returns a token source for the caller. An access token cookie
// is used as-is; a refresh token alone is exchanged on first use.
func (a *Authenticator) TokenSource(r *http.Request) (oauth2.TokenSource, error) {
	access := cookieValue(r, AccessTokenCookie)
	refresh := cookieValue(r, RefreshTokenCookie)

	if access == "" && refresh == "" {
		if a.fallback != nil {
			return a.fallback, nil
		}
		return nil, ErrNotAuthenticated
	}

	tok := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}
	if access == "" {
		tok.Expiry = time.Now().Add(-time.Minute)
	}
	if refresh == "" {
		return oauth2.StaticTokenSource(tok), nil
	}
	return a.oauth.TokenSource(context.WithoutCancel(r.Context()), tok), nil
}

// Login redirects to Google's consent screen.
func (a *Authenticator) Login(w http.ResponseWriter, r *http.Request) {
	if !a.Configured() {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Google Client ID not configured"})
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, a.cookie(StateCookie, state, stateMaxAge))

	url := a.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	http.Redirect(w, r, url, http.StatusFound)
}

// Callback completes the handshake and stores the tokens as cookies.
// Failures redirect home with an error query parameter.
func (a *Authenticator) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	fail := func(code string) {
		http.Redirect(w, r, "/?error="+code, http.StatusFound)
	}

	if e := q.Get("error"); e != "" {
		slog.Warn("oauth_denied", "error", e)
		fail("oauth_failed")
		return
	}
	code := q.Get("code")
	if code == "" {
		fail("no_code")
		return
	}
	if state := cookieValue(r, StateCookie); state == "" || state != q.Get("state") {
		slog.Warn("oauth_state_mismatch")
		fail("invalid_state")
		return
	}
	http.SetCookie(w, a.cookie(StateCookie, "", -1))

	tok, err := a.oauth.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("oauth_exchange_failed", "error", err)
		fail("token_exchange_failed")
		return
	}

	maxAge := time.Until(tok.Expiry)
	if tok.Expiry.IsZero() || maxAge <= 0 {
		maxAge = time.Hour
	}
	http.SetCookie(w, a.cookie(AccessTokenCookie, tok.AccessToken, maxAge))
	if tok.RefreshToken != "" {
		http.SetCookie(w, a.cookie(RefreshTokenCookie, tok.RefreshToken, refreshTokenMaxAge))
	}

	slog.Info("oauth_login", "refresh_token", tok.RefreshToken != "")
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout clears the token cookies.
func (a *Authenticator) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, a.cookie(AccessTokenCookie, "", -1))
	http.SetCookie(w, a.cookie(RefreshTokenCookie, "", -1))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Status is the login state reported to the UI.
type Status struct {
	Authenticated   bool `json:"authenticated"`
	HasAccessToken  bool `json:"hasAccessToken"`
	HasRefreshToken bool `json:"hasRefreshToken"`
}

// Status reports which token cookies are present.
func (a *Authenticator) Status(w http.ResponseWriter, r *http.Request) {
	s := Status{
		HasAccessToken:  cookieValue(r, AccessTokenCookie) != "",
		HasRefreshToken: cookieValue(r, RefreshTokenCookie) != "",
	}
	s.Authenticated = s.HasAccessToken || s.HasRefreshToken
	writeJSON(w, http.StatusOK, s)
}

// cookie builds an HttpOnly cookie. A negative maxAge deletes it.
func (a *Authenticator) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		c.MaxAge = -1
	} else {
		c.MaxAge = int(maxAge / time.Second)
	}
	return c
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
