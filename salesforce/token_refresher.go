// ABOUTME: Exchanges a stored refresh token for a new Salesforce access token
// ABOUTME: Persists the new token and instance URL; never retries on its own
package salesforce

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/harperreed/crmbridge/models"
	"golang.org/x/oauth2"
)

// CredentialStore persists refreshed tokens.
type CredentialStore interface {
	// UpdateCredentialTokens replaces the access token and, when non-empty,
	// the instance URL of the stored credential.
	UpdateCredentialTokens(ctx context.Context, id uuid.UUID, accessToken, instanceURL string) error
}

// Refresher obtains a fresh credential when a session has expired.
type Refresher interface {
	Refresh(ctx context.Context, cred models.Credential) (models.Credential, error)
}

// TokenRefresher runs the OAuth refresh_token grant against the configured site.
type TokenRefresher struct {
	oauth      *oauth2.Config
	store      CredentialStore
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTokenRefresher creates a refresher. A nil httpClient uses http.DefaultClient.
func NewTokenRefresher(cfg *Config, store CredentialStore, httpClient *http.Client) *TokenRefresher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenRefresher{
		oauth:      cfg.OAuthConfig(),
		store:      store,
		httpClient: httpClient,
		logger:     slog.Default(),
	}
}

// WithLogger sets the logger used for refresh diagnostics.
func (r *TokenRefresher) WithLogger(logger *slog.Logger) *TokenRefresher {
	r.logger = logger
	return r
}

// Refresh exchanges cred's refresh token for a new access token, persists it,
// and returns an updated copy of cred.
func (r *TokenRefresher) Refresh(ctx context.Context, cred models.Credential) (models.Credential, error) {
	if cred.RefreshToken == "" {
		return cred, ErrNoRefreshToken
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	token, err := r.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return cred, &RefreshFailedError{
				Status: retrieveErr.Response.StatusCode,
				Body:   string(retrieveErr.Body),
			}
		}
		return cred, &HTTPError{Reason: "token request failed", Err: err}
	}

	instanceURL, _ := token.Extra(models.MetaInstanceURL).(string)

	if err := r.store.UpdateCredentialTokens(ctx, cred.ID, token.AccessToken, instanceURL); err != nil {
		return cred, &PersistError{Err: err}
	}

	r.logger.Debug("refreshed salesforce access token", "credential_id", cred.ID, "instance_url_changed", instanceURL != "" && instanceURL != cred.InstanceURL())

	return cred.WithAccessToken(token.AccessToken, instanceURL), nil
}
