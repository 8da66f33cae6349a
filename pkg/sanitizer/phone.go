package sanitizer

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Customers are overwhelmingly local, so GB is tried first; an
// international number with an explicit +prefix still parses correctly.
var supportedRegions = []string{
	"GB",
	"IE",
}

// NormalizePhone converts a customer phone number to E.164. Input that
// cannot be parsed for any supported region is returned trimmed so the
// validator reports it against the original value.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil {
			continue
		}
		if phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return phone
}
