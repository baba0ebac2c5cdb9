package utils

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone parses and validates a phone number and returns it in E.164
// form. Numbers without a country prefix are parsed against defaultRegion.
func NormalizePhone(raw, defaultRegion string) (string, error) {
	num, err := phonenumbers.Parse(raw, defaultRegion)
	if err != nil {
		return "", fmt.Errorf("invalid phone number format")
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("invalid phone number")
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
