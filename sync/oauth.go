// ABOUTME: OAuth authorization-code flow for Salesforce connected apps
// ABOUTME: Exchanges callback codes and turns token responses into stored credentials
package sync

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/crmbridge/models"
	"github.com/harperreed/crmbridge/salesforce"
	"golang.org/x/oauth2"
)

// NewState returns an unguessable value for the OAuth state parameter.
func NewState() string {
	return uuid.NewString()
}

// AuthCodeURL returns the consent page URL for cfg, requesting a refresh token.
func AuthCodeURL(cfg *salesforce.Config, state string) string {
	return cfg.OAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ExchangeCode trades an authorization code for tokens and builds the
// credential to store. httpClient may be nil.
func ExchangeCode(ctx context.Context, cfg *salesforce.Config, code string, httpClient *http.Client) (*models.Credential, error) {
	if code == "" {
		return nil, fmt.Errorf("no authorization code received")
	}
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}

	token, err := cfg.OAuthConfig().Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	return CredentialFromToken(token)
}

// CredentialFromToken reads the Salesforce-specific token response fields.
// The identity URL has the form https://login.salesforce.com/id/<org>/<user>.
func CredentialFromToken(token *oauth2.Token) (*models.Credential, error) {
	instanceURL, _ := token.Extra("instance_url").(string)
	if instanceURL == "" {
		return nil, fmt.Errorf("token response did not include instance_url")
	}

	cred := &models.Credential{
		Provider:     models.ProviderSalesforce,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Metadata: map[string]string{
			models.MetaInstanceURL: strings.TrimRight(instanceURL, "/"),
		},
	}

	if identity, _ := token.Extra("id").(string); identity != "" {
		orgID, userID := parseIdentityURL(identity)
		if orgID != "" {
			cred.Metadata[models.MetaOrgID] = orgID
		}
		if userID != "" {
			cred.Metadata[models.MetaUserID] = userID
		}
	}

	return cred, nil
}

func parseIdentityURL(identity string) (orgID, userID string) {
	parts := strings.Split(strings.TrimRight(identity, "/"), "/")
	for i, p := range parts {
		if p == "id" && i+2 < len(parts) {
			return parts[i+1], parts[i+2]
		}
	}
	return "", ""
}
