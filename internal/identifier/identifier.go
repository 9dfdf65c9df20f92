// Package identifier normalizes and validates the CPF, the 11-digit national
// taxpayer number citizens use to book and look up reservations.
package identifier

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Length is the number of digits in a CPF.
const Length = 11

// Digits returns every digit in raw, in order.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize returns the digits of raw truncated to Length.
func Normalize(raw string) string {
	d := Digits(raw)
	if len(d) > Length {
		d = d[:Length]
	}
	return d
}

// Format masks raw as ddd.ddd.ddd-dd, applying only the separators the digits
// typed so far reach. Format(Format(x)) == Format(x).
func Format(raw string) string {
	d := Normalize(raw)
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return d[:3] + "." + d[3:]
	case len(d) <= 9:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	default:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	}
}

// Validate reports whether raw holds exactly 11 digits whose two check digits
// match. Sequences of one repeated digit are rejected even though their check
// digits work out.
func Validate(raw string) bool {
	d := Digits(raw)
	if len(d) != Length {
		return false
	}
	if strings.Count(d, d[:1]) == Length {
		return false
	}
	return checkDigit(d[:9]) == d[9] && checkDigit(d[:10]) == d[10]
}

// checkDigit computes the mod-11 check digit for the prefix, weighting the
// first digit len(prefix)+1 down to 2 for the last.
func checkDigit(prefix string) byte {
	sum := 0
	weight := len(prefix) + 1
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * weight
		weight--
	}
	r := (sum * 10) % 11
	if r == 10 {
		r = 0
	}
	return byte('0' + r)
}

// Fingerprint is a short one-way tag of the digits in raw, safe to put in logs.
func Fingerprint(raw string) string {
	sum := blake2b.Sum256([]byte(Digits(raw)))
	return hex.EncodeToString(sum[:6])
}
