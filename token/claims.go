// Package token decodes the claims embedded in backend-issued JWTs.
//
// Decoding is a structural parse of the token's payload segment only. The
// portal is the token's holder, not its verifier - signature verification is
// the backend's job on every protected call - so no key material is needed
// here and decoding never touches the network.
package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// DecodeErr is returned for any token that cannot be structurally parsed.
// Callers must treat it as "expired": fail closed and force renewal or login.
var DecodeErr = errors.New("malformed token")

// Claims are the fields the portal reads out of a backend-issued token.
// Roles and Status are only present on access tokens; Name and Email only on
// identity tokens. Absent claims are left at their zero value.
type Claims struct {
	Subject   string
	Email     string
	Name      string
	Roles     []string
	Status    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Decode parses the payload segment of a JWT without verifying its signature.
func Decode(raw string) (*Claims, error) {
	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(DecodeErr, err.Error())
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.Wrap(DecodeErr, "error extracting claims")
	}

	sub, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)
	name, _ := mapClaims["name"].(string)
	status, _ := mapClaims["status"].(string)
	iat, _ := mapClaims["iat"].(float64)
	exp, _ := mapClaims["exp"].(float64)

	var roles []string
	if claimRoles, ok := mapClaims["roles"].([]any); ok {
		roles = toStringSlice(claimRoles)
	}

	claims := &Claims{
		Subject: sub,
		Email:   email,
		Name:    name,
		Roles:   roles,
		Status:  status,
	}
	if iat != 0 {
		claims.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp != 0 {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return claims, nil
}

// Expired reports whether the claims' expiry has passed. A token with no exp
// claim is treated as already expired.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return true
	}
	return !now.Before(c.ExpiresAt)
}

// Usable decodes raw and reports whether it can still be attached to a
// protected request at time now. Any decode failure counts as expired.
func Usable(raw string, now time.Time) bool {
	if raw == "" {
		return false
	}
	claims, err := Decode(raw)
	if err != nil {
		return false
	}
	return !claims.Expired(now)
}

func toStringSlice(slice []any) []string {
	stringSlice := make([]string, 0)
	for _, v := range slice {
		if s, ok := v.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}
