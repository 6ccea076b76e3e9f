package domain

import (
	"fmt"
	"regexp"
)

// zipcodeRe matches a US zipcode: five digits with an optional ZIP+4 suffix.
var zipcodeRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// ValidZipcode reports whether s is a 5-digit or ZIP+4 US zipcode.
func ValidZipcode(s string) bool {
	return zipcodeRe.MatchString(s)
}

// LocationLabel is the text shown in the location display.
func LocationLabel(zipcode, defaultLabel string) string {
	if zipcode == "" {
		return defaultLabel
	}
	return fmt.Sprintf("Zipcode: %s", zipcode)
}
