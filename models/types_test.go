// ABOUTME: Tests for CRM sync data models
// ABOUTME: Validates credential copying and contact record immutability
package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCredentialWithAccessTokenCopies(t *testing.T) {
	original := Credential{
		ID:           uuid.New(),
		Provider:     ProviderSalesforce,
		AccessToken:  "old",
		RefreshToken: "refresh",
		Metadata:     map[string]string{MetaInstanceURL: "https://na1.example.com"},
	}

	updated := original.WithAccessToken("new", "https://na2.example.com")

	assert.Equal(t, "new", updated.AccessToken)
	assert.Equal(t, "https://na2.example.com", updated.InstanceURL())
	assert.Equal(t, "old", original.AccessToken, "original must not change")
	assert.Equal(t, "https://na1.example.com", original.InstanceURL(), "original metadata must not change")
	assert.Equal(t, "refresh", updated.RefreshToken)
}

func TestCredentialWithAccessTokenKeepsInstanceURL(t *testing.T) {
	original := Credential{Metadata: map[string]string{MetaInstanceURL: "https://na1.example.com"}}

	updated := original.WithAccessToken("new", "")

	assert.Equal(t, "https://na1.example.com", updated.InstanceURL())
}

func TestCredentialOrgKey(t *testing.T) {
	withOrg := Credential{Metadata: map[string]string{MetaInstanceURL: "https://a", MetaOrgID: "00D1"}}
	withoutOrg := Credential{Metadata: map[string]string{MetaInstanceURL: "https://a"}}

	assert.Equal(t, "00D1", withOrg.OrgKey())
	assert.Equal(t, "https://a", withoutOrg.OrgKey())
}

func TestContactRecordIsReadOnly(t *testing.T) {
	values := map[string]*string{"email": strPtr("jane@example.com"), "phone": nil}
	record := NewContactRecord("003A", values)

	*values["email"] = "changed@example.com"
	values["title"] = strPtr("CEO")

	require.NotNil(t, record.Value("email"))
	assert.Equal(t, "jane@example.com", *record.Value("email"))
	assert.Nil(t, record.Value("phone"))
	assert.Nil(t, record.Value("title"))

	fields := record.Fields()
	*fields["email"] = "mutated"
	assert.Equal(t, "jane@example.com", *record.Value("email"))
}

func TestContactRecordJSON(t *testing.T) {
	record := NewContactRecord("003A", map[string]*string{"email": strPtr("jane@example.com"), "phone": nil})

	data, err := json.Marshal(record)
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":"003A","fields":{"email":"jane@example.com","phone":null}}`, string(data))
}
