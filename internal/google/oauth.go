package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
)

// Scopes requested during authorization. Read-only Gmail access is all
// this service ever needs.
var Scopes = []string{gmail.GmailReadonlyScope}

// webCredentials mirrors the "web" block of a Google OAuth web-client
// credentials file as downloaded from the Cloud Console.
type webCredentials struct {
	Web struct {
		ClientID     string   `json:"client_id"`
		ClientSecret string   `json:"client_secret"`
		RedirectURIs []string `json:"redirect_uris"`
	} `json:"web"`
}

// AuthFlow performs the authorization handoff against Google: it builds
// the authorization URL and exchanges authorization codes for tokens.
// The redirect target is resolved once at construction time.
type AuthFlow struct {
	conf *oauth2.Config
}

// NewAuthFlow loads a web-client credentials file and resolves the
// redirect target: the explicit override wins, otherwise the first
// configured redirect URI is used.
func NewAuthFlow(credentialsFile, redirectOverride string) (*AuthFlow, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read OAuth client credentials %s: %w", credentialsFile, err)
	}

	var creds webCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse OAuth client credentials %s: %w", credentialsFile, err)
	}
	if creds.Web.ClientID == "" || creds.Web.ClientSecret == "" {
		return nil, fmt.Errorf("OAuth client credentials %s missing client id or secret", credentialsFile)
	}

	redirect := redirectOverride
	if redirect == "" {
		if len(creds.Web.RedirectURIs) == 0 {
			return nil, fmt.Errorf("OAuth client credentials %s list no redirect URIs and no override is configured", credentialsFile)
		}
		redirect = creds.Web.RedirectURIs[0]
	}

	return &AuthFlow{
		conf: &oauth2.Config{
			ClientID:     creds.Web.ClientID,
			ClientSecret: creds.Web.ClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirect,
			Scopes:       Scopes,
		},
	}, nil
}

// AuthURL returns the URL to send the user's browser to. Offline access
// is requested so a reusable refresh token is issued.
func (f *AuthFlow) AuthURL() string {
	return f.conf.AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// RedirectURL returns the resolved redirect target.
func (f *AuthFlow) RedirectURL() string {
	return f.conf.RedirectURL
}

// Exchange swaps an authorization code for a token. A missing or
// rejected code fails with ExchangeError; the caller must start a fresh
// authorization cycle rather than retry.
func (f *AuthFlow) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, &ExchangeError{Err: errors.New("no authorization code supplied")}
	}

	tok, err := f.conf.Exchange(ctx, code)
	if err != nil {
		return nil, &ExchangeError{Err: err}
	}
	return tok, nil
}

// HTTPClient returns an HTTP client that authenticates requests with
// the given token, refreshing it through the flow's client config when
// the provider requires it.
func (f *AuthFlow) HTTPClient(ctx context.Context, tok *oauth2.Token) *http.Client {
	return f.conf.Client(ctx, tok)
}
