package types

import (
	"fmt"
	"regexp"
	"strings"
)

// CPF represents a Brazilian personal taxpayer number (11 digits).
// Format: NNNNNNNNNDD where the last two digits are mod-11 check digits
// computed over the preceding nine and ten digits respectively.
type CPF string

var cpfDigitsRegex = regexp.MustCompile(`^\d{11}$`)

// ParseCPF validates and parses a CPF string. Punctuation (dots, dash) is
// stripped before validation.
func ParseCPF(s string) (CPF, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)

	if !cpfDigitsRegex.MatchString(cleaned) {
		return "", fmt.Errorf("CPF must contain exactly 11 digits")
	}

	cpf := CPF(cleaned)
	if !cpf.IsValid() {
		return "", fmt.Errorf("invalid CPF check digits")
	}

	return cpf, nil
}

// String returns the string representation
func (c CPF) String() string {
	return string(c)
}

// Last4 returns the last four digits, used for search and display masking
func (c CPF) Last4() string {
	if len(c) < 4 {
		return ""
	}
	return string(c)[len(c)-4:]
}

// IsValid validates the CPF check digits
func (c CPF) IsValid() bool {
	if len(c) != 11 {
		return false
	}

	digits := make([]int, 11)
	allEqual := true
	for i, r := range c {
		digits[i] = int(r - '0')
		if digits[i] != digits[0] {
			allEqual = false
		}
	}

	// Sequences like 00000000000 pass the checksum but are not issued
	if allEqual {
		return false
	}

	// First check digit: weights 10..2 over the first nine digits
	sum := 0
	for i := 0; i < 9; i++ {
		sum += digits[i] * (10 - i)
	}
	check := (sum * 10) % 11
	if check == 10 {
		check = 0
	}
	if digits[9] != check {
		return false
	}

	// Second check digit: weights 11..2 over the first ten digits
	sum = 0
	for i := 0; i < 10; i++ {
		sum += digits[i] * (11 - i)
	}
	check = (sum * 10) % 11
	if check == 10 {
		check = 0
	}
	return digits[10] == check
}

// IsZero checks if the CPF is empty
func (c CPF) IsZero() bool {
	return c == ""
}

// MaskCPF formats the stored last-4 digits for display. The full number never
// leaves storage unencrypted.
func MaskCPF(last4 string) string {
	if len(last4) != 4 {
		return "***.***.***-**"
	}
	return "***.***.***-" + last4
}
