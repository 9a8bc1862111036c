// ABOUTME: Address normalization for Contact updates
// ABOUTME: Maps country/state aliases to ISO codes and shapes coded or legacy address payloads
package salesforce

import (
	"log/slog"
	"strings"
)

// DefaultStateCountry is the country assumed for a state supplied without one
// when the org uses coded address fields.
const DefaultStateCountry = "US"

// AddressOptions carries the settings consulted while shaping an address payload.
type AddressOptions struct {
	// DefaultCountry is injected in legacy mode when a state arrives without a
	// country. Empty means the state is dropped instead.
	DefaultCountry string
	Logger         *slog.Logger
}

func (o AddressOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// NormalizeCountryCode maps a country name, abbreviation, or ISO code to its
// two-letter ISO 3166 code.
func NormalizeCountryCode(value string) (string, error) {
	if code, ok := countryAliases[aliasKey(value)]; ok {
		return code, nil
	}
	return "", &AddressError{Kind: UnmappableCountry, Value: value}
}

// NormalizeStateCode maps a state name or abbreviation to its two-letter code.
// Only US states, DC, and US territories are supported.
func NormalizeStateCode(value, countryCode string) (string, error) {
	if countryCode != DefaultStateCountry {
		return "", &AddressError{Kind: UnsupportedCountryForState, Value: countryCode}
	}
	if code, ok := usStateAliases[aliasKey(value)]; ok {
		return code, nil
	}
	return "", &AddressError{Kind: UnmappableState, Value: value}
}

func aliasKey(value string) string {
	return strings.ToUpper(strings.Join(strings.Fields(value), " "))
}

type addressInput struct {
	state, country       string
	hasState, hasCountry bool
}

// splitAddress separates state and country inputs from everything else.
// Coded field names in the input count as address input too, so neither mode
// can leak the other's field names.
func splitAddress(updates map[string]string) (addressInput, map[string]string) {
	var addr addressInput
	rest := make(map[string]string, len(updates))

	for field, value := range updates {
		switch field {
		case FieldMailingState, FieldMailingStateCode:
			if strings.TrimSpace(value) == "" {
				continue
			}
			if !addr.hasState || field == FieldMailingState {
				addr.state, addr.hasState = value, true
			}
		case FieldMailingCountry, FieldMailingCountryCode:
			if strings.TrimSpace(value) == "" {
				continue
			}
			if !addr.hasCountry || field == FieldMailingCountry {
				addr.country, addr.hasCountry = value, true
			}
		default:
			rest[field] = value
		}
	}
	return addr, rest
}

// BuildContactUpdatePayload shapes updates into a PATCH body for an org that
// does or does not use coded address fields. On a normalization failure it
// returns the non-address fields together with an *AddressError so the caller
// can still submit them.
func BuildContactUpdatePayload(updates map[string]string, usesCodedFields bool, opts AddressOptions) (map[string]string, error) {
	addr, rest := splitAddress(updates)
	if !addr.hasState && !addr.hasCountry {
		return rest, nil
	}
	if usesCodedFields {
		return buildCodedPayload(addr, rest)
	}
	return buildLegacyPayload(addr, rest, opts), nil
}

func buildCodedPayload(addr addressInput, rest map[string]string) (map[string]string, error) {
	var countryCode string
	if addr.hasCountry {
		code, err := NormalizeCountryCode(addr.country)
		if err != nil {
			return rest, err
		}
		countryCode = code
	}

	var stateCode string
	if addr.hasState {
		effective := countryCode
		if effective == "" {
			effective = DefaultStateCountry
		}
		code, err := NormalizeStateCode(addr.state, effective)
		if err != nil {
			return rest, err
		}
		stateCode = code
		countryCode = effective
	}

	payload := copyFields(rest)
	if countryCode != "" {
		payload[FieldMailingCountryCode] = countryCode
	}
	if stateCode != "" {
		payload[FieldMailingStateCode] = stateCode
	}
	return payload, nil
}

func buildLegacyPayload(addr addressInput, rest map[string]string, opts AddressOptions) map[string]string {
	payload := copyFields(rest)
	if addr.hasCountry {
		payload[FieldMailingCountry] = addr.country
	}
	if !addr.hasState {
		return payload
	}

	switch {
	case addr.hasCountry:
		payload[FieldMailingState] = addr.state
	case opts.DefaultCountry != "":
		payload[FieldMailingCountry] = opts.DefaultCountry
		payload[FieldMailingState] = addr.state
	default:
		opts.logger().Warn("dropping mailing state without country; no default country configured",
			"state", addr.state)
	}
	return payload
}

// StripAddressFields returns a copy of fields without any state or country field.
func StripAddressFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		if !IsAddressField(k) {
			out[k] = v
		}
	}
	return out
}

func copyFields(in map[string]string) map[string]string {
	out := make(map[string]string, len(in)+2)
	for k, v := range in {
		out[k] = v
	}
	return out
}
