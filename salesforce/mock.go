// ABOUTME: In-memory Contact client used for demos and tests
// ABOUTME: Implements ContactClient with the same address shaping as the REST client
package salesforce

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/harperreed/crmbridge/models"
)

// MockClient keeps contacts in memory, keyed by id and API field name.
type MockClient struct {
	mu       sync.Mutex
	contacts map[string]map[string]string
	coded    bool
	address  AddressOptions
	nextID   int
}

// NewMockClient creates an empty mock. coded selects which address schema the
// simulated org uses.
func NewMockClient(coded bool, address AddressOptions) *MockClient {
	return &MockClient{
		contacts: make(map[string]map[string]string),
		coded:    coded,
		address:  address,
	}
}

// AddContact stores a contact and returns its generated id.
func (m *MockClient) AddContact(fields map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := fmt.Sprintf("003MOCK%011d", m.nextID)
	stored := make(map[string]string, len(fields))
	for k, v := range fields {
		stored[k] = v
	}
	m.contacts[id] = stored
	return id
}

// SearchContacts matches query case-insensitively against name and email.
func (m *MockClient) SearchContacts(_ context.Context, _ models.Credential, query string) ([]models.ContactRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	ids := make([]string, 0, len(m.contacts))
	for id := range m.contacts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []models.ContactRecord
	for _, id := range ids {
		fields := m.contacts[id]
		name := strings.ToLower(displayName(fields))
		email := strings.ToLower(fields[FieldEmail])
		if strings.Contains(name, needle) || strings.Contains(email, needle) {
			out = append(out, m.record(id, fields))
		}
		if len(out) == SearchLimit {
			break
		}
	}
	return out, nil
}

// GetContact returns ErrNotFound for unknown ids.
func (m *MockClient) GetContact(_ context.Context, _ models.Credential, id string) (models.ContactRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fields, ok := m.contacts[id]
	if !ok {
		return models.ContactRecord{}, ErrNotFound
	}
	return m.record(id, fields), nil
}

// UpdateContact shapes the payload like the REST client and stores it.
func (m *MockClient) UpdateContact(_ context.Context, _ models.Credential, id string, updates map[string]string) (UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := UpdateResult{ID: id}
	fields, ok := m.contacts[id]
	if !ok {
		return result, ErrNotFound
	}

	payload, err := BuildContactUpdatePayload(updates, m.coded, m.address)
	if err != nil {
		var addrErr *AddressError
		if !errors.As(err, &addrErr) {
			return result, err
		}
		result.AddressError = addrErr
	}
	result.Payload = payload

	for k, v := range payload {
		switch k {
		case FieldMailingStateCode:
			fields[FieldMailingState] = v
		case FieldMailingCountryCode:
			fields[FieldMailingCountry] = v
		default:
			fields[k] = v
		}
	}
	return result, nil
}

func (m *MockClient) record(id string, fields map[string]string) models.ContactRecord {
	values := make(map[string]*string, len(contactFields))
	for _, f := range contactFields {
		if f.APIName == FieldName {
			if name := displayName(fields); name != "" {
				values[f.Key] = &name
				continue
			}
		}
		if v, ok := fields[f.APIName]; ok {
			v := v
			values[f.Key] = &v
		} else {
			values[f.Key] = nil
		}
	}
	return models.NewContactRecord(id, values)
}

func displayName(fields map[string]string) string {
	return strings.TrimSpace(fields[FieldFirstName] + " " + fields[FieldLastName])
}
