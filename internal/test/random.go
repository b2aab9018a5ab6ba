package test

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	upperCode    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// RandomASCIIString returns an alphanumeric string of length in
// [minLen, maxLen]. Lengths below one are raised to one.
func RandomASCIIString(minLen, maxLen int) string {
	minLen = max(minLen, 1)
	maxLen = max(maxLen, minLen)
	return randomFrom(alphanumeric, minLen+rand.IntN(maxLen-minLen+1))
}

// RandomVoucherCode returns a code in the canonical stored form, such as
// "SALE-7KQ2".
func RandomVoucherCode() string {
	return "SALE-" + randomFrom(upperCode, 4)
}

// RandomEmail returns a syntactically valid customer address.
func RandomEmail() string {
	return fmt.Sprintf("%s@example.com", strings.ToLower(RandomASCIIString(6, 12)))
}

func randomFrom(alphabet string, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphabet[rand.IntN(len(alphabet))]
	}
	return string(buf)
}
