// ABOUTME: Typed errors for Salesforce calls, token refresh, and address normalization
// ABOUTME: Callers branch on these with errors.Is and errors.As
package salesforce

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Salesforce error codes this package reacts to.
const (
	ErrorCodeInvalidSession = "INVALID_SESSION_ID"
	ErrorCodeFieldIntegrity = "FIELD_INTEGRITY_EXCEPTION"
	ErrorCodeInvalidField   = "INVALID_FIELD"
)

var (
	// ErrNotFound is returned when the CRM has no record with the requested id.
	ErrNotFound = errors.New("salesforce: record not found")

	// ErrSessionExpired means the session could not be restored by a token
	// refresh. The user has to reconnect their account.
	ErrSessionExpired = errors.New("salesforce: session expired, reconnect your account")

	// ErrNoRefreshToken is returned by the refresher when the credential has
	// no refresh token to exchange.
	ErrNoRefreshToken = errors.New("salesforce: credential has no refresh token")
)

// APIErrorItem is one entry of the JSON error array Salesforce returns.
type APIErrorItem struct {
	ErrorCode string   `json:"errorCode"`
	Message   string   `json:"message"`
	Fields    []string `json:"fields,omitempty"`
}

// APIError is a non-success response from the REST API.
type APIError struct {
	Status int
	Body   string
	Errors []APIErrorItem
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, Body: string(body)}
	var items []APIErrorItem
	if err := json.Unmarshal(body, &items); err == nil {
		e.Errors = items
	}
	return e
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		parts := make([]string, 0, len(e.Errors))
		for _, item := range e.Errors {
			parts = append(parts, fmt.Sprintf("%s: %s", item.ErrorCode, item.Message))
		}
		return fmt.Sprintf("salesforce api error (status %d): %s", e.Status, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("salesforce api error (status %d): %s", e.Status, e.Body)
}

// HasErrorCode reports whether any entry carries code.
func (e *APIError) HasErrorCode(code string) bool {
	for _, item := range e.Errors {
		if item.ErrorCode == code {
			return true
		}
	}
	return false
}

// AddressIntegrityFields returns the address fields named by
// FIELD_INTEGRITY_EXCEPTION entries. An empty result means the error is not an
// address partial failure.
func (e *APIError) AddressIntegrityFields() []string {
	if e.Status != 400 {
		return nil
	}
	var fields []string
	for _, item := range e.Errors {
		if item.ErrorCode != ErrorCodeFieldIntegrity {
			continue
		}
		for _, f := range item.Fields {
			if IsAddressField(f) {
				fields = append(fields, f)
			}
		}
	}
	return fields
}

func (e *APIError) isInvalidSession() bool {
	return e.Status == 401 && e.HasErrorCode(ErrorCodeInvalidSession)
}

// IsAddressIntegrityError reports whether err is a 400 whose error list names
// an address field under FIELD_INTEGRITY_EXCEPTION.
func IsAddressIntegrityError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && len(apiErr.AddressIntegrityFields()) > 0
}

func isInvalidSession(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.isInvalidSession()
}

// HTTPError is a transport-level failure: the request never produced a response.
type HTTPError struct {
	Reason string
	Err    error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("salesforce http error: %s: %v", e.Reason, e.Err)
	}
	return "salesforce http error: " + e.Reason
}

func (e *HTTPError) Unwrap() error { return e.Err }

// RefreshFailedError is a non-success response from the OAuth token endpoint.
type RefreshFailedError struct {
	Status int
	Body   string
}

func (e *RefreshFailedError) Error() string {
	return fmt.Sprintf("salesforce token refresh failed (status %d): %s", e.Status, e.Body)
}

// PersistError means a refreshed token could not be written to the credential store.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to persist refreshed credential: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// AddressErrorKind classifies a normalization failure.
type AddressErrorKind int

const (
	UnmappableCountry AddressErrorKind = iota + 1
	UnmappableState
	UnsupportedCountryForState
)

func (k AddressErrorKind) String() string {
	switch k {
	case UnmappableCountry:
		return "unmappable_country"
	case UnmappableState:
		return "unmappable_state"
	case UnsupportedCountryForState:
		return "unsupported_country_for_state"
	default:
		return "unknown"
	}
}

// AddressError names the offending value of a failed address normalization.
type AddressError struct {
	Kind  AddressErrorKind
	Value string
}

func (e *AddressError) Error() string {
	switch e.Kind {
	case UnmappableCountry:
		return fmt.Sprintf("could not map country %q to an ISO code; use a country name or a two-letter code such as \"US\"", e.Value)
	case UnmappableState:
		return fmt.Sprintf("could not map state %q to a US state code; use a state name or a two-letter code such as \"CA\"", e.Value)
	case UnsupportedCountryForState:
		return fmt.Sprintf("states are only supported for US addresses, got country %q", e.Value)
	default:
		return fmt.Sprintf("invalid address value %q", e.Value)
	}
}
