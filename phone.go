package admin

import (
	"github.com/goliatone/go-errors"
	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used when the submitted number has no country code.
var DefaultPhoneRegion = "IN"

// NormalizePhone parses the submitted number and returns it in E.164 form,
// e.g. "9876543210" -> "+919876543210" under the default region.
func NormalizePhone(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	num, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryBadInput, "invalid phone number").
			WithTextCode("INVALID_PHONE")
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", errors.New("invalid phone number", errors.CategoryBadInput).
			WithTextCode("INVALID_PHONE")
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
