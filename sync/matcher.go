// ABOUTME: Contact matching for meeting attendees
// ABOUTME: Picks the CRM contact a set of suggestions belongs to by email, then by unique name
package sync

import (
	"strings"

	"github.com/harperreed/crmbridge/models"
	"github.com/harperreed/crmbridge/salesforce"
)

type ContactMatcher struct {
	byEmail map[string]models.ContactRecord
	byName  map[string][]models.ContactRecord
}

// NewContactMatcher indexes search results for lookup.
func NewContactMatcher(contacts []models.ContactRecord) *ContactMatcher {
	m := &ContactMatcher{
		byEmail: make(map[string]models.ContactRecord),
		byName:  make(map[string][]models.ContactRecord),
	}
	for _, c := range contacts {
		m.AddContact(c)
	}
	return m
}

// FindMatch looks for a contact by email. When the email is unknown it falls
// back to the name, but only if exactly one contact carries it.
func (m *ContactMatcher) FindMatch(email, name string) (models.ContactRecord, bool) {
	if normalized := normalizeEmail(email); normalized != "" {
		if contact, found := m.byEmail[normalized]; found {
			return contact, true
		}
	}

	candidates := m.byName[normalizeName(name)]
	if len(candidates) == 1 {
		return candidates[0], true
	}
	return models.ContactRecord{}, false
}

// AddContact indexes one more contact.
func (m *ContactMatcher) AddContact(contact models.ContactRecord) {
	if email := contact.Value(salesforce.KeyForAPIName(salesforce.FieldEmail)); email != nil {
		if normalized := normalizeEmail(*email); normalized != "" {
			m.byEmail[normalized] = contact
		}
	}
	if name := contact.Value(salesforce.KeyForAPIName(salesforce.FieldName)); name != nil {
		if normalized := normalizeName(*name); normalized != "" {
			m.byName[normalized] = append(m.byName[normalized], contact)
		}
	}
}

// normalizeEmail converts email to lowercase for comparison.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
