package utils

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrMissingEmail = errors.New("email is required")
	ErrInvalidEmail = errors.New("invalid email format")
)

func ValidEmail(email string) error {
	if email == "" {
		return ErrMissingEmail
	}

	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}

	return nil
}

// SplitAddressList splits a comma separated address list, trimming spaces and
// dropping empty entries. The local team field is stored in this form.
func SplitAddressList(s string) []string {
	var out []string
	for _, addr := range strings.Split(s, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// ValidAddressList checks that a comma separated list contains at least one
// address and that every entry parses as an email address.
func ValidAddressList(s string) error {
	addrs := SplitAddressList(s)
	if len(addrs) == 0 {
		return ErrMissingEmail
	}
	for _, addr := range addrs {
		if err := ValidEmail(addr); err != nil {
			return err
		}
	}
	return nil
}
