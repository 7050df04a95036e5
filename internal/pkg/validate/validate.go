package validate

import (
	"net/mail"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

func Email(value string) bool {
	trimmed := strings.TrimSpace(value)
	addr, err := mail.ParseAddress(trimmed)
	return err == nil && addr.Address == trimmed
}

func HexColor(value string) bool {
	return hexColorPattern.MatchString(strings.TrimSpace(value))
}

func LengthBetween(value string, min, max int) bool {
	n := len(strings.TrimSpace(value))
	return n >= min && n <= max
}
