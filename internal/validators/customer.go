package validators

import (
	"regexp"
	"strings"
)

var (
	// Letters (including accents and ñ) and spaces only.
	nameRe = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚüÜñÑ ]+$`)

	// Paraguayan mobile: "09" followed by 8 digits.
	phoneRe = regexp.MustCompile(`^09\d{8}$`)
)

func IsValidCustomerName(name string) bool {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 3 {
		return false
	}
	return nameRe.MatchString(name)
}

func IsValidCustomerPhone(phone string) bool {
	return phoneRe.MatchString(strings.TrimSpace(phone))
}
