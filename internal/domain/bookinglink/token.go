package bookinglink

import (
	"crypto/rand"

	"salon-reserve/internal/pkg/errs"
)

const (
	tokenLength    = 32
	minTokenLength = 16
	tokenAlphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrInvalidTokenFormat = errs.New("invalid token format")

// GenerateToken returns a 32-character alphanumeric token from
// crypto/rand. Rejection sampling keeps the distribution uniform.
func GenerateToken() (string, error) {
	out := make([]byte, 0, tokenLength)
	buf := make([]byte, tokenLength*2)
	for len(out) < tokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", errs.Wrap(err, "failed to read random bytes")
		}
		for _, b := range buf {
			if int(b) < 256-256%len(tokenAlphabet) {
				out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
				if len(out) == tokenLength {
					break
				}
			}
		}
	}
	return string(out), nil
}

// ValidateTokenFormat fails fast on malformed input so resolution paths
// can skip storage lookups for garbage tokens.
func ValidateTokenFormat(token string) error {
	if len(token) < minTokenLength {
		return ErrInvalidTokenFormat
	}
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return ErrInvalidTokenFormat
		}
	}
	return nil
}
