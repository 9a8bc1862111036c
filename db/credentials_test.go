// ABOUTME: Tests for CRM credential persistence
// ABOUTME: Covers upsert by provider, token refresh updates and metadata round trips
package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/harperreed/crmbridge/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCredential() *models.Credential {
	return &models.Credential{
		Provider:     models.ProviderSalesforce,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		Metadata: map[string]string{
			models.MetaInstanceURL: "https://na1.salesforce.com",
			models.MetaOrgID:       "00D000000000001",
		},
	}
}

func TestSaveAndGetCredential(t *testing.T) {
	db := setupTestDB(t)

	cred := newTestCredential()
	require.NoError(t, SaveCredential(db, cred))
	assert.NotEqual(t, uuid.Nil, cred.ID)

	got, err := GetCredential(db, models.ProviderSalesforce)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, cred.ID, got.ID)
	assert.Equal(t, "access-1", got.AccessToken)
	assert.Equal(t, "refresh-1", got.RefreshToken)
	assert.Equal(t, "https://na1.salesforce.com", got.InstanceURL())
	assert.Equal(t, "00D000000000001", got.OrgKey())
}

func TestGetCredentialMissing(t *testing.T) {
	db := setupTestDB(t)

	got, err := GetCredential(db, models.ProviderSalesforce)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveCredentialReplacesByProvider(t *testing.T) {
	db := setupTestDB(t)

	first := newTestCredential()
	require.NoError(t, SaveCredential(db, first))

	second := newTestCredential()
	second.AccessToken = "access-2"
	second.RefreshToken = ""
	require.NoError(t, SaveCredential(db, second))

	assert.Equal(t, first.ID, second.ID)

	got, err := GetCredential(db, models.ProviderSalesforce)
	require.NoError(t, err)
	assert.Equal(t, "access-2", got.AccessToken)
	assert.Empty(t, got.RefreshToken)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM crm_credentials").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUpdateCredentialTokens(t *testing.T) {
	db := setupTestDB(t)

	cred := newTestCredential()
	require.NoError(t, SaveCredential(db, cred))

	store := CredentialStore{DB: db}
	require.NoError(t, store.UpdateCredentialTokens(context.Background(), cred.ID, "access-2", "https://na2.salesforce.com"))

	got, err := GetCredential(db, models.ProviderSalesforce)
	require.NoError(t, err)
	assert.Equal(t, "access-2", got.AccessToken)
	assert.Equal(t, "refresh-1", got.RefreshToken)
	assert.Equal(t, "https://na2.salesforce.com", got.InstanceURL())
	assert.Equal(t, "00D000000000001", got.OrgKey())
}

func TestUpdateCredentialTokensKeepsInstanceURLWhenEmpty(t *testing.T) {
	db := setupTestDB(t)

	cred := newTestCredential()
	require.NoError(t, SaveCredential(db, cred))

	require.NoError(t, UpdateCredentialTokens(context.Background(), db, cred.ID, "access-2", ""))

	got, err := GetCredential(db, models.ProviderSalesforce)
	require.NoError(t, err)
	assert.Equal(t, "https://na1.salesforce.com", got.InstanceURL())
}

func TestUpdateCredentialTokensUnknownID(t *testing.T) {
	db := setupTestDB(t)

	err := UpdateCredentialTokens(context.Background(), db, uuid.New(), "access", "")
	assert.Error(t, err)
}

func TestDeleteCredential(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveCredential(db, newTestCredential()))
	require.NoError(t, DeleteCredential(db, models.ProviderSalesforce))

	got, err := GetCredential(db, models.ProviderSalesforce)
	require.NoError(t, err)
	assert.Nil(t, got)
}
