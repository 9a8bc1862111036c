// ABOUTME: Tests for the in-memory Contact client
// ABOUTME: Verifies search, fetch, and update behave like the REST client contract
package salesforce

import (
	"context"
	"testing"

	"github.com/harperreed/crmbridge/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ContactClient = (*MockClient)(nil)
var _ ContactClient = (*Client)(nil)

func TestMockClientSearchAndGet(t *testing.T) {
	mock := NewMockClient(true, AddressOptions{})
	id := mock.AddContact(map[string]string{"FirstName": "Jane", "LastName": "Doe", "Email": "jane@example.com"})
	mock.AddContact(map[string]string{"FirstName": "John", "LastName": "Smith", "Email": "john@acme.com"})

	found, err := mock.SearchContacts(context.Background(), models.Credential{}, "JANE")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].ID)
	assert.Equal(t, "Jane Doe", *found[0].Value("name"))

	contact, err := mock.GetContact(context.Background(), models.Credential{}, id)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", *contact.Value("email"))
	assert.Nil(t, contact.Value("phone"))
}

func TestMockClientGetUnknown(t *testing.T) {
	mock := NewMockClient(false, AddressOptions{})

	_, err := mock.GetContact(context.Background(), models.Credential{}, "003missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockClientUpdateNormalizesAddress(t *testing.T) {
	mock := NewMockClient(true, AddressOptions{})
	id := mock.AddContact(map[string]string{"LastName": "Doe"})

	result, err := mock.UpdateContact(context.Background(), models.Credential{}, id, map[string]string{
		"MailingState": "Utah",
		"Phone":        "555-0001",
	})
	require.NoError(t, err)
	assert.Nil(t, result.AddressError)
	assert.Equal(t, "UT", result.Payload["MailingStateCode"])

	contact, err := mock.GetContact(context.Background(), models.Credential{}, id)
	require.NoError(t, err)
	assert.Equal(t, "UT", *contact.Value("mailing_state"))
	assert.Equal(t, "US", *contact.Value("mailing_country"))
	assert.Equal(t, "555-0001", *contact.Value("phone"))
}

func TestMockClientUpdateReportsAddressError(t *testing.T) {
	mock := NewMockClient(true, AddressOptions{})
	id := mock.AddContact(map[string]string{"LastName": "Doe"})

	result, err := mock.UpdateContact(context.Background(), models.Credential{}, id, map[string]string{
		"MailingCountry": "Atlantis",
		"Title":          "CTO",
	})

	require.NoError(t, err)
	require.NotNil(t, result.AddressError)
	assert.Equal(t, UnmappableCountry, result.AddressError.Kind)
	assert.Equal(t, map[string]string{"Title": "CTO"}, result.Payload)
}
