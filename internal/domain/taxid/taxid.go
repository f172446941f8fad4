// Package taxid validates Brazilian tax identifiers: CPF for natural
// persons and CNPJ for organizations. Both carry two check digits
// computed from weighted sums of the preceding digits.
package taxid

import (
	"regexp"
)

// Pre-compiled pattern for stripping formatting characters ("123.456.789-09").
var nonDigitRE = regexp.MustCompile(`\D`)

// PersonKind selects which identifier form applies.
type PersonKind string

const (
	KindIndividual   PersonKind = "individual"   // CPF, 11 digits
	KindOrganization PersonKind = "organization" // CNPJ, 14 digits
)

const (
	cpfLength  = 11
	cnpjLength = 14
)

// Canonicalize strips every non-digit character from a raw tax id.
// The canonical form is what gets persisted and what uniqueness is
// enforced on.
func Canonicalize(raw string) string {
	return nonDigitRE.ReplaceAllString(raw, "")
}

// Validate reports whether the raw tax id is a well-formed CPF or CNPJ
// for the given person kind. Formatting characters are ignored.
func Validate(raw string, kind PersonKind) bool {
	digits := Canonicalize(raw)
	switch kind {
	case KindIndividual:
		return ValidateCPF(digits)
	case KindOrganization:
		return ValidateCNPJ(digits)
	}
	return false
}

// ValidateCPF checks an 11-digit CPF in canonical (digits-only) form.
func ValidateCPF(digits string) bool {
	if len(digits) != cpfLength || !allDigits(digits) {
		return false
	}
	if allSame(digits) {
		return false
	}

	d := toInts(digits)

	// First check digit: weights 10..2 over the first 9 digits.
	sum := 0
	for i := 0; i < 9; i++ {
		sum += d[i] * (10 - i)
	}
	if cpfCheckDigit(sum) != d[9] {
		return false
	}

	// Second check digit: weights 11..2 over the first 10 digits.
	sum = 0
	for i := 0; i < 10; i++ {
		sum += d[i] * (11 - i)
	}
	return cpfCheckDigit(sum) == d[10]
}

// cpfCheckDigit reduces a weighted sum to a CPF check digit:
// (sum * 10) mod 11, mapped to 0 when the remainder exceeds 9.
func cpfCheckDigit(sum int) int {
	digit := (sum * 10) % 11
	if digit > 9 {
		return 0
	}
	return digit
}

// CNPJ check-digit weights. The first pass covers 12 digits, the second 13.
var (
	cnpjWeightsFirst  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeightsSecond = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidateCNPJ checks a 14-digit CNPJ in canonical (digits-only) form.
func ValidateCNPJ(digits string) bool {
	if len(digits) != cnpjLength || !allDigits(digits) {
		return false
	}
	if allSame(digits) {
		return false
	}

	d := toInts(digits)

	if cnpjCheckDigit(d[:12], cnpjWeightsFirst) != d[12] {
		return false
	}
	return cnpjCheckDigit(d[:13], cnpjWeightsSecond) == d[13]
}

// cnpjCheckDigit reduces a weighted sum to a CNPJ check digit:
// sum mod 11, mapped to 0 when the remainder is below 2, else 11 - remainder.
func cnpjCheckDigit(digits, weights []int) int {
	sum := 0
	for i, digit := range digits {
		sum += digit * weights[i]
	}
	rem := sum % 11
	if rem < 2 {
		return 0
	}
	return 11 - rem
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func toInts(s string) []int {
	out := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = int(s[i] - '0')
	}
	return out
}
