// ABOUTME: CRM contact MCP tool handlers
// ABOUTME: Implements search_crm_contacts, get_crm_contact, review_crm_suggestions, and apply_crm_updates tools
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/crmbridge/models"
	"github.com/harperreed/crmbridge/salesforce"
	"github.com/harperreed/crmbridge/suggest"
	"github.com/harperreed/crmbridge/sync"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CredentialFunc loads the credential to act with. It runs per call so that
// refreshed tokens from earlier calls are picked up.
type CredentialFunc func(ctx context.Context) (models.Credential, error)

type CRMHandlers struct {
	client     salesforce.ContactClient
	generator  suggest.Generator
	pusher     *sync.Pusher
	credential CredentialFunc
}

func NewCRMHandlers(client salesforce.ContactClient, generator suggest.Generator, pusher *sync.Pusher, credential CredentialFunc) *CRMHandlers {
	return &CRMHandlers{
		client:     client,
		generator:  generator,
		pusher:     pusher,
		credential: credential,
	}
}

type ContactOutput struct {
	ID     string             `json:"id"`
	Fields map[string]*string `json:"fields"`
}

func contactToOutput(contact models.ContactRecord) ContactOutput {
	return ContactOutput{ID: contact.ID, Fields: contact.Fields()}
}

type SearchContactsInput struct {
	Query string `json:"query" jsonschema:"Name or email fragment to search for (required)"`
}

type SearchContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *CRMHandlers) SearchContacts(ctx context.Context, request *mcp.CallToolRequest, input SearchContactsInput) (*mcp.CallToolResult, SearchContactsOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchContactsOutput{}, fmt.Errorf("query is required")
	}

	cred, err := h.credential(ctx)
	if err != nil {
		return nil, SearchContactsOutput{}, err
	}

	contacts, err := h.client.SearchContacts(ctx, cred, input.Query)
	if err != nil {
		return nil, SearchContactsOutput{}, fmt.Errorf("failed to search contacts: %w", err)
	}

	result := make([]ContactOutput, len(contacts))
	for i, contact := range contacts {
		result[i] = contactToOutput(contact)
	}

	return nil, SearchContactsOutput{Contacts: result}, nil
}

type GetContactInput struct {
	ID string `json:"id" jsonschema:"Salesforce Contact ID (required)"`
}

func (h *CRMHandlers) GetContact(ctx context.Context, request *mcp.CallToolRequest, input GetContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	if input.ID == "" {
		return nil, ContactOutput{}, fmt.Errorf("id is required")
	}

	cred, err := h.credential(ctx)
	if err != nil {
		return nil, ContactOutput{}, err
	}

	contact, err := h.client.GetContact(ctx, cred, input.ID)
	if err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type ReviewSuggestionsInput struct {
	ContactID    string `json:"contact_id" jsonschema:"Salesforce Contact ID (required)"`
	MeetingID    string `json:"meeting_id" jsonschema:"Meeting the suggestions were generated from (required)"`
	MeetingTitle string `json:"meeting_title,omitempty" jsonschema:"Meeting title, for context"`
}

type ReviewSuggestionsOutput struct {
	Contact     ContactOutput       `json:"contact"`
	Suggestions []models.Suggestion `json:"suggestions"`
}

func (h *CRMHandlers) ReviewSuggestions(ctx context.Context, request *mcp.CallToolRequest, input ReviewSuggestionsInput) (*mcp.CallToolResult, ReviewSuggestionsOutput, error) {
	if input.ContactID == "" {
		return nil, ReviewSuggestionsOutput{}, fmt.Errorf("contact_id is required")
	}
	if input.MeetingID == "" {
		return nil, ReviewSuggestionsOutput{}, fmt.Errorf("meeting_id is required")
	}

	cred, err := h.credential(ctx)
	if err != nil {
		return nil, ReviewSuggestionsOutput{}, err
	}

	contact, err := h.client.GetContact(ctx, cred, input.ContactID)
	if err != nil {
		return nil, ReviewSuggestionsOutput{}, fmt.Errorf("failed to get contact: %w", err)
	}

	raw, err := h.generator.Generate(ctx, suggest.Meeting{ID: input.MeetingID, Title: input.MeetingTitle})
	if err != nil {
		return nil, ReviewSuggestionsOutput{}, fmt.Errorf("failed to generate suggestions: %w", err)
	}

	return nil, ReviewSuggestionsOutput{
		Contact:     contactToOutput(contact),
		Suggestions: suggest.Merge(suggest.FromRaw(raw), contact),
	}, nil
}

type ApplyUpdatesInput struct {
	ContactID string            `json:"contact_id" jsonschema:"Salesforce Contact ID (required)"`
	Updates   map[string]string `json:"updates" jsonschema:"Field values to write, keyed by API name (MailingCity) or field key (mailing_city)"`
}

type ApplyUpdatesOutput struct {
	ContactID    string            `json:"contact_id"`
	Status       string            `json:"status"`
	Submitted    map[string]string `json:"submitted"`
	Dropped      []string          `json:"dropped,omitempty"`
	AddressError string            `json:"address_error,omitempty"`
}

func (h *CRMHandlers) ApplyUpdates(ctx context.Context, request *mcp.CallToolRequest, input ApplyUpdatesInput) (*mcp.CallToolResult, ApplyUpdatesOutput, error) {
	if input.ContactID == "" {
		return nil, ApplyUpdatesOutput{}, fmt.Errorf("contact_id is required")
	}
	if len(input.Updates) == 0 {
		return nil, ApplyUpdatesOutput{}, fmt.Errorf("updates are required")
	}

	suggestions := make([]models.Suggestion, 0, len(input.Updates))
	for field, value := range input.Updates {
		apiName, err := resolveField(field)
		if err != nil {
			return nil, ApplyUpdatesOutput{}, err
		}
		suggestions = append(suggestions, models.Suggestion{Field: apiName, NewValue: value, Apply: true, HasChange: true})
	}

	cred, err := h.credential(ctx)
	if err != nil {
		return nil, ApplyUpdatesOutput{}, err
	}

	report, err := h.pusher.Push(ctx, cred, input.ContactID, suggestions)
	if err != nil {
		return nil, ApplyUpdatesOutput{}, fmt.Errorf("failed to apply updates: %w", err)
	}

	output := ApplyUpdatesOutput{
		ContactID: report.ContactID,
		Status:    report.Status,
		Submitted: report.Submitted,
		Dropped:   report.Dropped,
	}
	if report.AddressError != nil {
		output.AddressError = report.AddressError.Error()
	}
	return nil, output, nil
}

func resolveField(field string) (string, error) {
	apiName, ok := salesforce.ResolveUpdatableField(field)
	if !ok {
		return "", fmt.Errorf("unknown or read-only contact field: %s", field)
	}
	return apiName, nil
}

// Register adds the CRM tools and the contact resource to server.
func (h *CRMHandlers) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_crm_contacts",
		Description: "Search Salesforce contacts by name or email",
	}, h.SearchContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_crm_contact",
		Description: "Fetch a Salesforce contact by ID",
	}, h.GetContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "review_crm_suggestions",
		Description: "Compare AI-suggested field updates from a meeting against the current Salesforce contact",
	}, h.ReviewSuggestions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apply_crm_updates",
		Description: "Write reviewed field updates to a Salesforce contact, normalizing state and country",
	}, h.ApplyUpdates)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		Name:        "crm-contact",
		URITemplate: contactURIPrefix + "{id}",
		MIMEType:    "application/json",
		Description: "A Salesforce contact as JSON",
	}, h.ReadContact)
}
