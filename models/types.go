// ABOUTME: Data models for CRM sync entities
// ABOUTME: Defines Credential, ContactRecord, Suggestion, and RawSuggestion
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Provider constants.
const (
	ProviderSalesforce = "salesforce"
)

// Credential metadata keys.
const (
	MetaInstanceURL = "instance_url"
	MetaOrgID       = "org_id"
	MetaUserID      = "user_id"
)

// Credential is a stored CRM connection. Refreshing produces an updated copy;
// callers never see it mutated in place.
type Credential struct {
	ID           uuid.UUID         `json:"id"`
	Provider     string            `json:"provider"`
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token,omitempty"` // empty when the grant had none
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// InstanceURL returns the org-specific API base.
func (c Credential) InstanceURL() string {
	return c.Metadata[MetaInstanceURL]
}

// OrgKey identifies the CRM org behind this credential. The org id wins when
// known; otherwise the instance URL stands in for it.
func (c Credential) OrgKey() string {
	if id := c.Metadata[MetaOrgID]; id != "" {
		return id
	}
	return c.InstanceURL()
}

// WithAccessToken returns a copy carrying a new access token and, when
// instanceURL is non-empty, a new instance URL.
func (c Credential) WithAccessToken(accessToken, instanceURL string) Credential {
	out := c
	out.AccessToken = accessToken
	out.Metadata = make(map[string]string, len(c.Metadata)+1)
	for k, v := range c.Metadata {
		out.Metadata[k] = v
	}
	if instanceURL != "" {
		out.Metadata[MetaInstanceURL] = instanceURL
	}
	out.UpdatedAt = time.Now()
	return out
}

// ContactRecord is a flat, read-only view of a CRM contact keyed by internal
// field keys. A nil value means the CRM holds no value for that field.
type ContactRecord struct {
	ID     string
	values map[string]*string
}

// NewContactRecord copies values into a new record.
func NewContactRecord(id string, values map[string]*string) ContactRecord {
	copied := make(map[string]*string, len(values))
	for k, v := range values {
		if v == nil {
			copied[k] = nil
			continue
		}
		s := *v
		copied[k] = &s
	}
	return ContactRecord{ID: id, values: copied}
}

// Value returns the value stored under key, or nil when absent or null.
func (r ContactRecord) Value(key string) *string {
	v, ok := r.values[key]
	if !ok || v == nil {
		return nil
	}
	s := *v
	return &s
}

// Fields returns a copy of every key held by the record.
func (r ContactRecord) Fields() map[string]*string {
	out := make(map[string]*string, len(r.values))
	for k := range r.values {
		out[k] = r.Value(k)
	}
	return out
}

func (r ContactRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID     string             `json:"id"`
		Fields map[string]*string `json:"fields"`
	}{ID: r.ID, Fields: r.values})
}

// RawSuggestion is one field/value/context tuple as produced by the AI generator.
type RawSuggestion struct {
	Field     string `json:"field"`
	Value     string `json:"value"`
	Context   string `json:"context,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Suggestion is a proposed change to one CRM contact field.
type Suggestion struct {
	Field        string  `json:"field"`
	Label        string  `json:"label"`
	CurrentValue *string `json:"current_value"`
	NewValue     string  `json:"new_value"`
	Context      string  `json:"context,omitempty"`
	Timestamp    string  `json:"timestamp,omitempty"`
	Apply        bool    `json:"apply"`
	HasChange    bool    `json:"has_change"`
}

// Update log status constants.
const (
	UpdateStatusApplied = "applied"
	UpdateStatusPartial = "partial"
	UpdateStatusFailed  = "failed"
)

// UpdateLog records one attempt to push field changes to the CRM.
type UpdateLog struct {
	ID           string            `json:"id"`
	Provider     string            `json:"provider"`
	ContactID    string            `json:"contact_id"`
	Payload      map[string]string `json:"payload"`
	Status       string            `json:"status"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}
