// ABOUTME: Static field tables for Salesforce Contact records
// ABOUTME: Maps API field names to internal keys and human labels in both directions
package salesforce

import "strings"

// Contact API field names.
const (
	FieldFirstName          = "FirstName"
	FieldLastName           = "LastName"
	FieldName               = "Name"
	FieldEmail              = "Email"
	FieldPhone              = "Phone"
	FieldMobilePhone        = "MobilePhone"
	FieldTitle              = "Title"
	FieldDepartment         = "Department"
	FieldMailingStreet      = "MailingStreet"
	FieldMailingCity        = "MailingCity"
	FieldMailingState       = "MailingState"
	FieldMailingPostalCode  = "MailingPostalCode"
	FieldMailingCountry     = "MailingCountry"
	FieldMailingStateCode   = "MailingStateCode"
	FieldMailingCountryCode = "MailingCountryCode"
)

// FieldSpec describes one Contact field.
type FieldSpec struct {
	APIName   string
	Key       string
	Label     string
	Updatable bool
}

var contactFields = []FieldSpec{
	{APIName: FieldFirstName, Key: "first_name", Label: "First Name", Updatable: true},
	{APIName: FieldLastName, Key: "last_name", Label: "Last Name", Updatable: true},
	{APIName: FieldName, Key: "name", Label: "Full Name"},
	{APIName: FieldEmail, Key: "email", Label: "Email", Updatable: true},
	{APIName: FieldPhone, Key: "phone", Label: "Phone", Updatable: true},
	{APIName: FieldMobilePhone, Key: "mobile_phone", Label: "Mobile Phone", Updatable: true},
	{APIName: FieldTitle, Key: "title", Label: "Job Title", Updatable: true},
	{APIName: FieldDepartment, Key: "department", Label: "Department", Updatable: true},
	{APIName: FieldMailingStreet, Key: "mailing_street", Label: "Mailing Street", Updatable: true},
	{APIName: FieldMailingCity, Key: "mailing_city", Label: "Mailing City", Updatable: true},
	{APIName: FieldMailingState, Key: "mailing_state", Label: "Mailing State", Updatable: true},
	{APIName: FieldMailingPostalCode, Key: "mailing_postal_code", Label: "Mailing Postal Code", Updatable: true},
	{APIName: FieldMailingCountry, Key: "mailing_country", Label: "Mailing Country", Updatable: true},
}

var (
	fieldsByAPIName = make(map[string]FieldSpec, len(contactFields))
	fieldsByKey     = make(map[string]FieldSpec, len(contactFields))
)

func init() {
	for _, f := range contactFields {
		fieldsByAPIName[f.APIName] = f
		fieldsByKey[f.Key] = f
	}
}

// ContactFields returns every supported Contact field in display order.
func ContactFields() []FieldSpec {
	out := make([]FieldSpec, len(contactFields))
	copy(out, contactFields)
	return out
}

// ContactAPINames returns the API names used in search and fetch field lists.
func ContactAPINames() []string {
	names := make([]string, 0, len(contactFields)+1)
	names = append(names, "Id")
	for _, f := range contactFields {
		names = append(names, f.APIName)
	}
	return names
}

// FieldByAPIName looks up a field by its API name.
func FieldByAPIName(apiName string) (FieldSpec, bool) {
	f, ok := fieldsByAPIName[apiName]
	return f, ok
}

// FieldByKey looks up a field by its internal key.
func FieldByKey(key string) (FieldSpec, bool) {
	f, ok := fieldsByKey[key]
	return f, ok
}

// KeyForAPIName returns the internal key for an API name, or "" when unmapped.
func KeyForAPIName(apiName string) string {
	return fieldsByAPIName[apiName].Key
}

// APINameForKey returns the API name for an internal key, or "" when unmapped.
func APINameForKey(key string) string {
	return fieldsByKey[key].APIName
}

// LabelFor returns the human label for an API name. Unknown names are
// returned with spaces inserted before interior capitals.
func LabelFor(apiName string) string {
	if f, ok := fieldsByAPIName[apiName]; ok {
		return f.Label
	}
	var b strings.Builder
	for i, r := range apiName {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsAddressField reports whether an API name is one of the mailing state or
// country fields, in either legacy or coded form.
func IsAddressField(apiName string) bool {
	switch apiName {
	case FieldMailingState, FieldMailingCountry, FieldMailingStateCode, FieldMailingCountryCode:
		return true
	}
	return false
}

// ResolveUpdatableField accepts an updatable API name, an internal key, or one
// of the coded address fields and returns the API name.
func ResolveUpdatableField(name string) (string, bool) {
	if IsAddressField(name) {
		return name, true
	}
	if spec, ok := FieldByAPIName(name); ok && spec.Updatable {
		return spec.APIName, true
	}
	if spec, ok := FieldByKey(name); ok && spec.Updatable {
		return spec.APIName, true
	}
	return "", false
}
