// ABOUTME: Salesforce REST client for searching, fetching, and patching Contacts
// ABOUTME: Wraps every call in a single refresh-and-retry on session expiry
package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/harperreed/crmbridge/models"
	"golang.org/x/oauth2"
)

// SearchLimit caps the number of contacts a search returns.
const SearchLimit = 10

const capabilityProbeSOQL = "SELECT Id, MailingStateCode, MailingCountryCode FROM Contact LIMIT 0"

// ContactClient is the contract shared by the REST client and the mock.
type ContactClient interface {
	SearchContacts(ctx context.Context, cred models.Credential, query string) ([]models.ContactRecord, error)
	GetContact(ctx context.Context, cred models.Credential, id string) (models.ContactRecord, error)
	UpdateContact(ctx context.Context, cred models.Credential, id string, updates map[string]string) (UpdateResult, error)
}

// UpdateResult describes an acknowledged Contact update.
type UpdateResult struct {
	ID      string
	Payload map[string]string
	// AddressError is set when the address fields could not be normalized and
	// were left out of the submitted payload.
	AddressError *AddressError
}

// ClientOptions configures a Client.
type ClientOptions struct {
	HTTPClient *http.Client
	APIVersion string
	Address    AddressOptions
	Logger     *slog.Logger
}

// Client talks to the Salesforce REST API on behalf of a stored credential.
type Client struct {
	httpClient *http.Client
	refresher  Refresher
	cache      *CapabilityCache
	apiVersion string
	address    AddressOptions
	logger     *slog.Logger
}

// NewClient creates a REST client. The capability cache is shared by every
// client in the process and may be nil, which disables caching.
func NewClient(refresher Refresher, cache *CapabilityCache, opts ClientOptions) *Client {
	c := &Client{
		httpClient: opts.HTTPClient,
		refresher:  refresher,
		cache:      cache,
		apiVersion: opts.APIVersion,
		address:    opts.Address,
		logger:     opts.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.apiVersion == "" {
		c.apiVersion = DefaultAPIVersion
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.address.Logger == nil {
		c.address.Logger = c.logger
	}
	return c
}

// SearchContacts finds up to SearchLimit contacts whose name or email contains query.
func (c *Client) SearchContacts(ctx context.Context, cred models.Credential, query string) ([]models.ContactRecord, error) {
	term := escapeSOQLLike(strings.TrimSpace(query))
	soql := fmt.Sprintf("SELECT %s FROM Contact WHERE Name LIKE '%%%s%%' OR Email LIKE '%%%s%%' ORDER BY Name LIMIT %d",
		strings.Join(ContactAPINames(), ", "), term, term, SearchLimit)

	var body []byte
	err := c.withSession(ctx, cred, func(cred models.Credential) error {
		var err error
		body, err = c.send(ctx, cred, http.MethodGet, "/query", url.Values{"q": {soql}}, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Records []map[string]any `json:"records"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	contacts := make([]models.ContactRecord, 0, len(resp.Records))
	for _, rec := range resp.Records {
		contacts = append(contacts, recordFromWire(rec))
	}
	return contacts, nil
}

// GetContact fetches one contact by id.
func (c *Client) GetContact(ctx context.Context, cred models.Credential, id string) (models.ContactRecord, error) {
	path := "/sobjects/Contact/" + url.PathEscape(id)
	params := url.Values{"fields": {strings.Join(ContactAPINames(), ",")}}

	var body []byte
	err := c.withSession(ctx, cred, func(cred models.Credential) error {
		var err error
		body, err = c.send(ctx, cred, http.MethodGet, path, params, nil)
		return err
	})
	if err != nil {
		return models.ContactRecord{}, err
	}

	var rec map[string]any
	if err := json.Unmarshal(body, &rec); err != nil {
		return models.ContactRecord{}, fmt.Errorf("failed to decode contact: %w", err)
	}
	return recordFromWire(rec), nil
}

// UpdateContact normalizes updates for the org's address schema and patches
// the contact. Address normalization failures do not stop the other fields
// from being submitted; they come back on UpdateResult.AddressError.
// A FIELD_INTEGRITY_EXCEPTION is returned as an *APIError for the caller to
// handle; this method never resubmits a partial update itself.
// The capability probe and the patch share one session, so an update
// refreshes the credential at most once.
func (c *Client) UpdateContact(ctx context.Context, cred models.Credential, id string, updates map[string]string) (UpdateResult, error) {
	result := UpdateResult{ID: id}
	s := &session{cred: cred}

	coded, err := c.codedAddressFields(ctx, s)
	if err != nil {
		return result, err
	}

	payload, err := BuildContactUpdatePayload(updates, coded, c.address)
	if err != nil {
		var addrErr *AddressError
		if !errors.As(err, &addrErr) {
			return result, err
		}
		c.logger.Warn("address fields left out of contact update", "contact_id", id, "reason", addrErr.Kind.String(), "value", addrErr.Value)
		result.AddressError = addrErr
	}
	result.Payload = payload

	if len(payload) == 0 {
		return result, nil
	}

	path := "/sobjects/Contact/" + url.PathEscape(id)
	err = c.run(ctx, s, func(cred models.Credential) error {
		_, err := c.send(ctx, cred, http.MethodPatch, path, nil, payload)
		return err
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// UsesCodedAddressFields reports whether the credential's org has state and
// country picklists enabled. The answer is cached per org for CapabilityTTL.
// Probe failures other than INVALID_FIELD default to false and are not cached.
func (c *Client) UsesCodedAddressFields(ctx context.Context, cred models.Credential) bool {
	coded, _ := c.codedAddressFields(ctx, &session{cred: cred})
	return coded
}

// codedAddressFields is UsesCodedAddressFields on a shared session. Only
// ErrSessionExpired is returned; other probe failures fall back to legacy.
func (c *Client) codedAddressFields(ctx context.Context, s *session) (bool, error) {
	key := s.cred.OrgKey()
	if coded, ok := c.cache.Get(key); ok {
		return coded, nil
	}

	coded, err := c.probeCodedAddressFields(ctx, s)
	if errors.Is(err, ErrSessionExpired) {
		return false, err
	}
	if err != nil {
		c.logger.Warn("capability probe failed, assuming legacy address fields", "org", key, "error", err)
		return false, nil
	}
	c.cache.Put(key, coded)
	return coded, nil
}

func (c *Client) probeCodedAddressFields(ctx context.Context, s *session) (bool, error) {
	err := c.run(ctx, s, func(cred models.Credential) error {
		_, err := c.send(ctx, cred, http.MethodGet, "/query", url.Values{"q": {capabilityProbeSOQL}}, nil)
		return err
	})
	if err == nil {
		return true, nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest && apiErr.HasErrorCode(ErrorCodeInvalidField) {
		return false, nil
	}
	return false, err
}

// session carries the credential across the requests of one operation and
// remembers whether it has already been refreshed.
type session struct {
	cred      models.Credential
	refreshed bool
}

// withSession runs call with cred under a fresh session.
func (c *Client) withSession(ctx context.Context, cred models.Credential, call func(models.Credential) error) error {
	return c.run(ctx, &session{cred: cred}, call)
}

// run runs call with the session's credential. If the CRM rejects the
// session and it has not been refreshed yet, the credential is refreshed once
// and call runs a second and final time. A refresh failure and any later
// rejection end in ErrSessionExpired.
func (c *Client) run(ctx context.Context, s *session, call func(models.Credential) error) error {
	err := call(s.cred)
	if !isInvalidSession(err) {
		return err
	}
	if s.refreshed {
		c.logger.Warn("salesforce session still invalid after refresh", "credential_id", s.cred.ID)
		return ErrSessionExpired
	}

	s.refreshed = true
	refreshed, refreshErr := c.refresher.Refresh(ctx, s.cred)
	if refreshErr != nil {
		c.logger.Warn("salesforce token refresh failed", "credential_id", s.cred.ID, "error", refreshErr)
		return ErrSessionExpired
	}
	s.cred = refreshed

	err = call(s.cred)
	if isInvalidSession(err) {
		c.logger.Warn("salesforce session still invalid after refresh", "credential_id", s.cred.ID)
		return ErrSessionExpired
	}
	return err
}

func (c *Client) send(ctx context.Context, cred models.Credential, method, path string, params url.Values, payload any) ([]byte, error) {
	base := strings.TrimRight(cred.InstanceURL(), "/")
	if base == "" {
		return nil, fmt.Errorf("credential %s has no instance_url", cred.ID)
	}
	endpoint := base + "/services/data/" + c.apiVersion + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.authorizedClient(ctx, cred).Do(req)
	if err != nil {
		return nil, &HTTPError{Reason: fmt.Sprintf("%s %s", method, path), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HTTPError{Reason: "failed to read response body", Err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, newAPIError(resp.StatusCode, body)
	}
}

// authorizedClient attaches cred's access token as a bearer header.
func (c *Client) authorizedClient(ctx context.Context, cred models.Credential) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cred.AccessToken,
		TokenType:   "Bearer",
	}))
}

func recordFromWire(rec map[string]any) models.ContactRecord {
	id, _ := rec["Id"].(string)
	values := make(map[string]*string, len(contactFields))
	for _, f := range contactFields {
		raw, ok := rec[f.APIName]
		if !ok || raw == nil {
			values[f.Key] = nil
			continue
		}
		var s string
		if str, isString := raw.(string); isString {
			s = str
		} else {
			s = fmt.Sprint(raw)
		}
		values[f.Key] = &s
	}
	return models.NewContactRecord(id, values)
}

var soqlLikeEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `%`, `\%`, `_`, `\_`)

func escapeSOQLLike(term string) string {
	return soqlLikeEscaper.Replace(term)
}
