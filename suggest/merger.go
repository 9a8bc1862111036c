// ABOUTME: Reconciles AI-proposed contact field values against the live CRM record
// ABOUTME: Fills current values, recomputes has_change, and drops no-op suggestions
package suggest

import (
	"github.com/harperreed/crmbridge/models"
	"github.com/harperreed/crmbridge/salesforce"
)

// FromRaw turns generator output into suggestions that have not yet been
// compared with a contact. Field keys are rewritten to API names; fields
// that cannot be updated keep their name and are skipped at push time.
func FromRaw(raw []models.RawSuggestion) []models.Suggestion {
	out := make([]models.Suggestion, 0, len(raw))
	for _, r := range raw {
		field := r.Field
		if apiName, ok := salesforce.ResolveUpdatableField(field); ok {
			field = apiName
		}
		out = append(out, models.Suggestion{
			Field:     field,
			Label:     salesforce.LabelFor(field),
			NewValue:  r.Value,
			Context:   r.Context,
			Timestamp: r.Timestamp,
			HasChange: true,
		})
	}
	return out
}

// Merge compares each suggestion with contact and returns, in input order,
// only the suggestions that would change the record. Every returned
// suggestion is marked for applying.
func Merge(suggestions []models.Suggestion, contact models.ContactRecord) []models.Suggestion {
	merged := make([]models.Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		s.CurrentValue = currentValue(s.Field, contact)
		s.HasChange = s.CurrentValue == nil || *s.CurrentValue != s.NewValue
		if !s.HasChange {
			continue
		}
		s.Apply = true
		merged = append(merged, s)
	}
	return merged
}

func currentValue(field string, contact models.ContactRecord) *string {
	key := salesforce.KeyForAPIName(field)
	if key == "" {
		return nil
	}
	return contact.Value(key)
}

// Updates collects the field changes of every suggestion marked for applying.
// A later suggestion for the same field wins.
func Updates(suggestions []models.Suggestion) map[string]string {
	updates := make(map[string]string, len(suggestions))
	for _, s := range suggestions {
		if s.Apply {
			updates[s.Field] = s.NewValue
		}
	}
	return updates
}
