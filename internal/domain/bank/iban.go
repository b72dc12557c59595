package bank

import (
	"regexp"
	"strings"
)

var egyptianIBAN = regexp.MustCompile(`^EG\d{2}[A-Z0-9]{29}$`)

// ValidateIBAN is strict: callers normalise first.
func ValidateIBAN(iban string) bool {
	return egyptianIBAN.MatchString(iban)
}

func NormalizeIBAN(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}

// MaskAccount keeps the last four characters.
func MaskAccount(value string) string {
	if len(value) <= 4 {
		return value
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
