// ABOUTME: Pushes reviewed contact suggestions to the CRM
// ABOUTME: Retries once without state and country when the org rejects the address, and audits every attempt
package sync

import (
	"context"
	"log/slog"
	"sort"

	"github.com/harperreed/crmbridge/models"
	"github.com/harperreed/crmbridge/salesforce"
	"github.com/harperreed/crmbridge/suggest"
)

// UpdateRecorder stores an audit entry for each push attempt.
type UpdateRecorder interface {
	RecordUpdate(entry *models.UpdateLog) error
}

// PushReport summarizes what reached the CRM.
type PushReport struct {
	ContactID string
	// Submitted is the payload the CRM acknowledged, after address shaping.
	Submitted map[string]string
	// Dropped lists address fields removed after the org rejected them.
	Dropped []string
	// Skipped lists suggested fields that are unknown or read-only.
	Skipped      []string
	AddressError *salesforce.AddressError
	Status       string
}

type Pusher struct {
	client   salesforce.ContactClient
	recorder UpdateRecorder
	logger   *slog.Logger
}

// NewPusher creates a pusher. recorder may be nil to skip auditing.
func NewPusher(client salesforce.ContactClient, recorder UpdateRecorder, logger *slog.Logger) *Pusher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pusher{client: client, recorder: recorder, logger: logger}
}

// Push applies every suggestion marked Apply to contactID. Fields that are
// unknown or read-only are skipped so they cannot sink the whole update.
// When nothing is left to write the CRM is not called.
func (p *Pusher) Push(ctx context.Context, cred models.Credential, contactID string, suggestions []models.Suggestion) (*PushReport, error) {
	report := &PushReport{ContactID: contactID, Submitted: map[string]string{}, Status: models.UpdateStatusApplied}

	updates, skipped := resolveUpdates(suggestions)
	if len(skipped) > 0 {
		report.Skipped = skipped
		report.Status = models.UpdateStatusPartial
		p.logger.Warn("skipping fields that cannot be updated", "contact_id", contactID, "fields", skipped)
	}
	if len(updates) == 0 {
		return report, nil
	}

	result, err := p.client.UpdateContact(ctx, cred, contactID, updates)
	if err != nil && salesforce.IsAddressIntegrityError(err) {
		remaining := salesforce.StripAddressFields(updates)
		report.Dropped = droppedFields(updates, remaining)
		p.logger.Warn("org rejected address fields, retrying without them",
			"contact_id", contactID, "dropped", report.Dropped)

		if len(remaining) > 0 {
			result, err = p.client.UpdateContact(ctx, cred, contactID, remaining)
		}
	}
	if err != nil {
		report.Status = models.UpdateStatusFailed
		p.record(report, updates, err)
		return report, err
	}

	report.Submitted = result.Payload
	var cause error
	if result.AddressError != nil {
		report.AddressError = result.AddressError
		cause = result.AddressError
	}
	if report.AddressError != nil || len(report.Dropped) > 0 || len(report.Skipped) > 0 {
		report.Status = models.UpdateStatusPartial
	}

	p.record(report, result.Payload, cause)
	return report, nil
}

func (p *Pusher) record(report *PushReport, payload map[string]string, cause error) {
	if p.recorder == nil {
		return
	}

	entry := &models.UpdateLog{
		Provider:  models.ProviderSalesforce,
		ContactID: report.ContactID,
		Payload:   payload,
		Status:    report.Status,
	}
	if cause != nil {
		msg := cause.Error()
		entry.ErrorMessage = &msg
	}
	if err := p.recorder.RecordUpdate(entry); err != nil {
		p.logger.Error("failed to record contact update", "contact_id", report.ContactID, "error", err)
	}
}

// resolveUpdates maps applied suggestions onto updatable API names and
// returns the fields that have none.
func resolveUpdates(suggestions []models.Suggestion) (map[string]string, []string) {
	resolved := make([]models.Suggestion, 0, len(suggestions))
	var skipped []string
	for _, s := range suggestions {
		if !s.Apply {
			continue
		}
		apiName, ok := salesforce.ResolveUpdatableField(s.Field)
		if !ok {
			skipped = append(skipped, s.Field)
			continue
		}
		s.Field = apiName
		resolved = append(resolved, s)
	}
	sort.Strings(skipped)
	return suggest.Updates(resolved), skipped
}

func droppedFields(before, after map[string]string) []string {
	var dropped []string
	for k := range before {
		if _, ok := after[k]; !ok {
			dropped = append(dropped, k)
		}
	}
	sort.Strings(dropped)
	return dropped
}
