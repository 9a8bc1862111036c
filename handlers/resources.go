// ABOUTME: MCP resource handler for exposing CRM contacts
// ABOUTME: Serves crm://contacts/{id} as read-only JSON fetched from Salesforce
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const contactURIPrefix = "crm://contacts/"

// ReadContact handles resource reads for a single contact.
func (h *CRMHandlers) ReadContact(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, contactURIPrefix) {
		return nil, fmt.Errorf("invalid URI: expected %s<id>", contactURIPrefix)
	}

	id := strings.TrimPrefix(uri, contactURIPrefix)
	if id == "" || strings.Contains(id, "/") {
		return nil, fmt.Errorf("invalid contact ID in URI: %s", uri)
	}

	cred, err := h.credential(ctx)
	if err != nil {
		return nil, err
	}

	contact, err := h.client.GetContact(ctx, cred, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}

	data, err := json.MarshalIndent(contactToOutput(contact), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contact: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
