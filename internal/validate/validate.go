// Package validate provides pure input predicates for user-supplied fields.
//
// Malformed input returns false; the predicates never fail.
package validate

import "regexp"

var (
	idNumberRegex = regexp.MustCompile(`^[A-Za-z]\d{9}$`)
	phoneRegex    = regexp.MustCompile(`^\d{10}`)
)

// IDNumber reports whether s is a well-formed government ID number:
// exactly one ASCII letter followed by exactly nine decimal digits.
func IDNumber(s string) bool {
	return idNumberRegex.MatchString(s)
}

// Phone reports whether s starts with a run of ten decimal digits.
// Trailing characters are tolerated, matching the looseness of the
// upstream registration service.
func Phone(s string) bool {
	return phoneRegex.MatchString(s)
}
