package jwt

import (
	"errors"
	"fmt"
	"log"
	"strings"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the backend's token payload the client reads.
// It is advisory only: the signature is never verified here.
type Claims struct {
	UserID     string `json:"_id"`
	IsBusiness bool   `json:"isBusiness"`
	IsAdmin    bool   `json:"isAdmin"`
	gojwt.RegisteredClaims
}

var (
	// ErrNoToken is returned when there is no stored token to decode.
	ErrNoToken = errors.New("no token")
	// ErrMalformed is returned when the stored token cannot be decoded.
	ErrMalformed = errors.New("malformed token")
)

var parser = gojwt.NewParser()

// Decode reads the claims of a raw token without validating its signature
// or expiry.
func Decode(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoToken
	}
	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return claims, nil
}

// FromToken is the silent form of Decode: a missing or corrupted token both
// yield nil claims.
func FromToken(raw string) *Claims {
	claims, err := Decode(raw)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			log.Printf("[jwt] ignoring stored token: %v", err)
		}
		return nil
	}
	return claims
}
