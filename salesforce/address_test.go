// ABOUTME: Tests for address normalization and payload shaping
// ABOUTME: Covers alias lookups, coded/legacy invariants, and partial payloads on failure
package salesforce

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCountryCodeKnownAliases(t *testing.T) {
	cases := map[string]string{
		"USA":                      "US",
		"usa":                      "US",
		"  United States  ":        "US",
		"united   states of america": "US",
		"U.S.A.":                   "US",
		"Canada":                   "CA",
		"uk":                       "GB",
		"Deutschland":              "DE",
		"méxico":                   "MX",
		"UAE":                      "AE",
	}
	for input, want := range cases {
		got, err := NormalizeCountryCode(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestNormalizeCountryCodeUnknown(t *testing.T) {
	for _, input := range []string{"Atlantis", "", "XX", "Narnia Republic"} {
		_, err := NormalizeCountryCode(input)

		var addrErr *AddressError
		require.True(t, errors.As(err, &addrErr), "input %q", input)
		assert.Equal(t, UnmappableCountry, addrErr.Kind)
		assert.Equal(t, input, addrErr.Value)
	}
}

func TestNormalizeStateCodeKnownAliases(t *testing.T) {
	cases := map[string]string{
		"Utah":                 "UT",
		"utah":                 "UT",
		" new  york ":          "NY",
		"tx":                   "TX",
		"District of Columbia": "DC",
		"D.C.":                 "DC",
		"Puerto Rico":          "PR",
		"guam":                 "GU",
	}
	for input, want := range cases {
		got, err := NormalizeStateCode(input, "US")
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestNormalizeStateCodeUnknown(t *testing.T) {
	_, err := NormalizeStateCode("Gondor", "US")

	var addrErr *AddressError
	require.True(t, errors.As(err, &addrErr))
	assert.Equal(t, UnmappableState, addrErr.Kind)
	assert.Equal(t, "Gondor", addrErr.Value)
	assert.Contains(t, addrErr.Error(), "Gondor")
}

func TestNormalizeStateCodeNonUSCountry(t *testing.T) {
	_, err := NormalizeStateCode("Ontario", "CA")

	var addrErr *AddressError
	require.True(t, errors.As(err, &addrErr))
	assert.Equal(t, UnsupportedCountryForState, addrErr.Kind)
	assert.Equal(t, "CA", addrErr.Value)
}

func TestNormalizationIsIdempotentOnCanonicalCodes(t *testing.T) {
	for _, code := range []string{"US", "CA", "GB", "DE", "JP", "AU"} {
		got, err := NormalizeCountryCode(code)
		require.NoError(t, err)
		assert.Equal(t, code, got)
	}
	for _, code := range []string{"UT", "CA", "NY", "DC", "PR"} {
		got, err := NormalizeStateCode(code, "US")
		require.NoError(t, err)
		assert.Equal(t, code, got)
	}
}

func TestAliasTablesMapToTwoLetterCodes(t *testing.T) {
	for alias, code := range countryAliases {
		assert.Len(t, code, 2, "country alias %q", alias)
		assert.Equal(t, code, countryAliases[code], "code %q must map to itself", code)
		assert.Equal(t, strings.ToUpper(alias), alias, "alias keys are upper-cased")
	}
	codes := map[string]bool{}
	for alias, code := range usStateAliases {
		assert.Len(t, code, 2, "state alias %q", alias)
		assert.Equal(t, code, usStateAliases[code], "code %q must map to itself", code)
		codes[code] = true
	}
	assert.GreaterOrEqual(t, len(codes), 56)
}

func TestBuildPayloadCodedEndToEnd(t *testing.T) {
	payload, err := BuildContactUpdatePayload(map[string]string{
		"MailingCountry": "USA",
		"MailingState":   "Utah",
		"Phone":          "555-0001",
	}, true, AddressOptions{})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"MailingCountryCode": "US",
		"MailingStateCode":   "UT",
		"Phone":              "555-0001",
	}, payload)
}

func TestBuildPayloadCodedStateOnlyDefaultsCountry(t *testing.T) {
	payload, err := BuildContactUpdatePayload(map[string]string{"MailingState": "texas"}, true, AddressOptions{})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"MailingStateCode": "TX", "MailingCountryCode": "US"}, payload)
}

func TestBuildPayloadCodedCountryOnly(t *testing.T) {
	payload, err := BuildContactUpdatePayload(map[string]string{"MailingCountry": "Canada"}, true, AddressOptions{})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"MailingCountryCode": "CA"}, payload)
}

func TestBuildPayloadCodedFailuresKeepRemainder(t *testing.T) {
	cases := []struct {
		name    string
		updates map[string]string
		kind    AddressErrorKind
		value   string
	}{
		{"unknown country", map[string]string{"MailingCountry": "Atlantis", "Title": "CTO"}, UnmappableCountry, "Atlantis"},
		{"unknown state", map[string]string{"MailingState": "Gondor", "Title": "CTO"}, UnmappableState, "Gondor"},
		{"state outside US", map[string]string{"MailingCountry": "Canada", "MailingState": "Ontario", "Title": "CTO"}, UnsupportedCountryForState, "CA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, err := BuildContactUpdatePayload(tc.updates, true, AddressOptions{})

			var addrErr *AddressError
			require.True(t, errors.As(err, &addrErr))
			assert.Equal(t, tc.kind, addrErr.Kind)
			assert.Equal(t, tc.value, addrErr.Value)
			assert.Equal(t, map[string]string{"Title": "CTO"}, payload)
		})
	}
}

func TestBuildPayloadCodedNeverStateWithoutCountry(t *testing.T) {
	states := []string{"", "Utah", "UT", "Gondor", "   "}
	countries := []string{"", "USA", "Canada", "Atlantis", "us"}
	for _, state := range states {
		for _, country := range countries {
			updates := map[string]string{"Email": "a@example.com"}
			if state != "" {
				updates["MailingState"] = state
			}
			if country != "" {
				updates["MailingCountry"] = country
			}

			payload, _ := BuildContactUpdatePayload(updates, true, AddressOptions{})

			if _, ok := payload[FieldMailingStateCode]; ok {
				assert.Contains(t, payload, FieldMailingCountryCode, "state=%q country=%q", state, country)
			}
			assert.NotContains(t, payload, FieldMailingState)
			assert.NotContains(t, payload, FieldMailingCountry)
		}
	}
}

func TestBuildPayloadLegacyNeverEmitsCodes(t *testing.T) {
	inputs := []map[string]string{
		{"MailingState": "Utah", "MailingCountry": "USA"},
		{"MailingStateCode": "UT", "MailingCountryCode": "US"},
		{"MailingCountry": "Atlantis"},
		{"MailingState": "Texas"},
	}
	for _, opts := range []AddressOptions{{}, {DefaultCountry: "United States"}} {
		for _, updates := range inputs {
			payload, err := BuildContactUpdatePayload(updates, false, opts)

			require.NoError(t, err)
			assert.NotContains(t, payload, FieldMailingStateCode)
			assert.NotContains(t, payload, FieldMailingCountryCode)
		}
	}
}

func TestBuildPayloadLegacyPassesThroughVerbatim(t *testing.T) {
	payload, err := BuildContactUpdatePayload(map[string]string{
		"MailingState":   "Utah",
		"MailingCountry": "usa",
	}, false, AddressOptions{})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"MailingState": "Utah", "MailingCountry": "usa"}, payload)
}

func TestBuildPayloadLegacyInjectsDefaultCountry(t *testing.T) {
	payload, err := BuildContactUpdatePayload(map[string]string{"MailingState": "Texas"}, false,
		AddressOptions{DefaultCountry: "United States"})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"MailingState": "Texas", "MailingCountry": "United States"}, payload)
}

func TestBuildPayloadLegacyDropsStateWithoutDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	payload, err := BuildContactUpdatePayload(map[string]string{"MailingState": "Texas"}, false,
		AddressOptions{Logger: logger})

	require.NoError(t, err)
	assert.Empty(t, payload)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "Texas")
}

func TestBuildPayloadWithoutAddressReturnsRemainder(t *testing.T) {
	updates := map[string]string{"Phone": "555-0001", "Title": "CTO"}

	for _, coded := range []bool{true, false} {
		payload, err := BuildContactUpdatePayload(updates, coded, AddressOptions{})

		require.NoError(t, err)
		assert.Equal(t, updates, payload)
	}
}

func TestStripAddressFields(t *testing.T) {
	stripped := StripAddressFields(map[string]string{
		"MailingStateCode": "UT",
		"MailingCountry":   "US",
		"MailingCity":      "Provo",
		"Phone":            "555-0001",
	})

	assert.Equal(t, map[string]string{"MailingCity": "Provo", "Phone": "555-0001"}, stripped)
}
