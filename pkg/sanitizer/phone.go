package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone formats phone as E.164. Numbers without a country prefix are
// read as national numbers of region. It returns "" when the number is not valid.
func NormalizePhone(phone, region string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	parsed, err := phonenumbers.Parse(phone, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return ""
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// PhoneNormalizer binds NormalizePhone to a default region.
type PhoneNormalizer struct {
	Region string
}

func (n PhoneNormalizer) Normalize(phone string) string {
	return NormalizePhone(phone, n.Region)
}
