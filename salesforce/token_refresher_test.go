// ABOUTME: Tests for the OAuth token refresher
// ABOUTME: Uses an httptest token endpoint to cover success, failure, and persistence errors
package salesforce

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/harperreed/crmbridge/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCredentialStore struct {
	updates []string
	err     error
}

func (s *memoryCredentialStore) UpdateCredentialTokens(_ context.Context, id uuid.UUID, accessToken, instanceURL string) error {
	if s.err != nil {
		return s.err
	}
	s.updates = append(s.updates, fmt.Sprintf("%s|%s|%s", id, accessToken, instanceURL))
	return nil
}

func newTokenServer(t *testing.T, status int, body string) (*httptest.Server, *[]url.Values) {
	t.Helper()
	var requests []url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		requests = append(requests, r.PostForm)
		assert.Equal(t, "/services/oauth2/token", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func testCredential(instanceURL string) models.Credential {
	return models.Credential{
		ID:           uuid.New(),
		Provider:     models.ProviderSalesforce,
		AccessToken:  "expired-token",
		RefreshToken: "refresh-123",
		Metadata:     map[string]string{models.MetaInstanceURL: instanceURL},
	}
}

func TestRefreshSuccessUpdatesTokenAndInstanceURL(t *testing.T) {
	srv, requests := newTokenServer(t, http.StatusOK,
		`{"access_token":"fresh-token","instance_url":"https://na9.example.com","token_type":"Bearer"}`)
	store := &memoryCredentialStore{}
	refresher := NewTokenRefresher(&Config{ClientID: "cid", ClientSecret: "csecret", LoginURL: srv.URL}, store, srv.Client())
	cred := testCredential("https://na1.example.com")

	updated, err := refresher.Refresh(context.Background(), cred)

	require.NoError(t, err)
	assert.Equal(t, "fresh-token", updated.AccessToken)
	assert.Equal(t, "https://na9.example.com", updated.InstanceURL())
	assert.Equal(t, "expired-token", cred.AccessToken, "input credential must not be mutated")

	require.Len(t, *requests, 1)
	form := (*requests)[0]
	assert.Equal(t, "refresh_token", form.Get("grant_type"))
	assert.Equal(t, "refresh-123", form.Get("refresh_token"))
	assert.Equal(t, "cid", form.Get("client_id"))
	assert.Equal(t, "csecret", form.Get("client_secret"))

	require.Len(t, store.updates, 1)
	assert.Equal(t, fmt.Sprintf("%s|fresh-token|https://na9.example.com", cred.ID), store.updates[0])
}

func TestRefreshWithoutInstanceURLKeepsExisting(t *testing.T) {
	srv, _ := newTokenServer(t, http.StatusOK, `{"access_token":"fresh-token"}`)
	refresher := NewTokenRefresher(&Config{LoginURL: srv.URL}, &memoryCredentialStore{}, srv.Client())

	updated, err := refresher.Refresh(context.Background(), testCredential("https://na1.example.com"))

	require.NoError(t, err)
	assert.Equal(t, "https://na1.example.com", updated.InstanceURL())
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	refresher := NewTokenRefresher(&Config{LoginURL: "http://127.0.0.1:1"}, &memoryCredentialStore{}, nil)
	cred := testCredential("https://na1.example.com")
	cred.RefreshToken = ""

	_, err := refresher.Refresh(context.Background(), cred)

	assert.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestRefreshRejectedByProvider(t *testing.T) {
	srv, _ := newTokenServer(t, http.StatusBadRequest, `{"error":"invalid_grant","error_description":"expired access/refresh token"}`)
	store := &memoryCredentialStore{}
	refresher := NewTokenRefresher(&Config{LoginURL: srv.URL}, store, srv.Client())

	_, err := refresher.Refresh(context.Background(), testCredential("https://na1.example.com"))

	var failed *RefreshFailedError
	require.True(t, errors.As(err, &failed), "got %v", err)
	assert.Equal(t, http.StatusBadRequest, failed.Status)
	assert.Contains(t, failed.Body, "invalid_grant")
	assert.Empty(t, store.updates)
}

func TestRefreshTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	refresher := NewTokenRefresher(&Config{LoginURL: url}, &memoryCredentialStore{}, nil)

	_, err := refresher.Refresh(context.Background(), testCredential("https://na1.example.com"))

	var httpErr *HTTPError
	assert.True(t, errors.As(err, &httpErr), "got %v", err)
}

func TestRefreshPersistFailure(t *testing.T) {
	srv, _ := newTokenServer(t, http.StatusOK, `{"access_token":"fresh-token"}`)
	store := &memoryCredentialStore{err: errors.New("disk full")}
	refresher := NewTokenRefresher(&Config{LoginURL: srv.URL}, store, srv.Client())

	_, err := refresher.Refresh(context.Background(), testCredential("https://na1.example.com"))

	var persistErr *PersistError
	require.True(t, errors.As(err, &persistErr))
	assert.Contains(t, persistErr.Error(), "disk full")
}
