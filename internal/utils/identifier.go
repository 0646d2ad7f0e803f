// internal/utils/identifier.go
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const identifierCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

var (
	slugInvalid  = regexp.MustCompile(`[^a-z0-9]+`)
	slugCollapse = regexp.MustCompile(`-{2,}`)
)

// GenerateSlug normalizes a product name into a URL-safe slug.
func GenerateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalid.ReplaceAllString(slug, "-")
	slug = slugCollapse.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "product"
	}
	if len(slug) > 200 {
		slug = strings.Trim(slug[:200], "-")
	}
	return slug
}

// GenerateSKU builds a stock-keeping unit from a category prefix plus a
// random suffix, e.g. "FUR-7Q2M9X1B". The charset omits 0/O/1/I to keep the
// code readable on labels.
func GenerateSKU(category string) (string, error) {
	prefix := skuPrefix(category)
	suffix, err := randomFromCharset(8)
	if err != nil {
		return "", fmt.Errorf("failed to generate SKU: %w", err)
	}
	return prefix + "-" + suffix, nil
}

func skuPrefix(category string) string {
	var letters []rune
	for _, r := range strings.ToUpper(category) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
			if len(letters) == 3 {
				break
			}
		}
	}
	if len(letters) < 2 {
		return "PRD"
	}
	return string(letters)
}

// GenerateBarcode produces a 13-digit EAN-13 code in the in-store numbering
// range (prefix 200) with a valid check digit.
func GenerateBarcode() (string, error) {
	digits := make([]int, 12)
	digits[0], digits[1], digits[2] = 2, 0, 0
	for i := 3; i < 12; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate barcode: %w", err)
		}
		digits[i] = int(n.Int64())
	}

	var sb strings.Builder
	for _, d := range digits {
		sb.WriteByte(byte('0' + d))
	}
	sb.WriteByte(byte('0' + ean13CheckDigit(digits)))
	return sb.String(), nil
}

// ValidateBarcode checks length, digits, and the EAN-13 check digit.
func ValidateBarcode(code string) bool {
	if len(code) != 13 {
		return false
	}
	digits := make([]int, 13)
	for i, r := range code {
		if r < '0' || r > '9' {
			return false
		}
		digits[i] = int(r - '0')
	}
	return ean13CheckDigit(digits[:12]) == digits[12]
}

// Odd positions weigh 1, even positions weigh 3 (1-based, left to right).
func ean13CheckDigit(digits []int) int {
	sum := 0
	for i, d := range digits {
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	return (10 - sum%10) % 10
}

// GenerateRandomString returns a cryptographically random alphanumeric string.
func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

func randomFromCharset(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(identifierCharset))))
		if err != nil {
			return "", err
		}
		b[i] = identifierCharset[n.Int64()]
	}
	return string(b), nil
}
