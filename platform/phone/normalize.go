// Package phone normalises the mobile numbers users enter at signup and in
// profile edits. Numbers are stored in E.164 so that "98765 43210",
// "098765 43210" and "+91 98765-43210" are one value: hosts and tourists
// call each other from what the guide cards and bookings show. Legacy
// records keep what was typed until the mobile is next edited.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers entered without a country prefix.
const DefaultRegion = "IN"

// NormalizeE164 formats a phone number to E.164. Input that is not a valid
// number is kept as typed (trimmed) rather than rejected.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, DefaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}
