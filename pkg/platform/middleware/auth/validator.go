package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	pstrings "bpd/pkg/platform/strings"
	"bpd/pkg/requestcontext"
)

// ErrMissingSubject is returned for tokens without an oid claim.
var ErrMissingSubject = errors.New("token has no oid claim")

// Claims are the identity-provider claims the back office relies on.
type Claims struct {
	ObjectID   string   `json:"oid"`
	Emails     []string `json:"emails,omitempty"`
	GivenName  string   `json:"given_name,omitempty"`
	FamilyName string   `json:"family_name,omitempty"`
	jwt.RegisteredClaims
}

// RS256Validator verifies operator bearer tokens issued by the identity provider.
type RS256Validator struct {
	publicKey *rsa.PublicKey
	issuer    string
	audience  string
	now       func() time.Time
}

// NewRS256Validator parses pemKey (PKIX, PKCS1 or certificate) and returns
// a validator that also enforces issuer and audience when non-empty.
func NewRS256Validator(pemKey, issuer, audience string) (*RS256Validator, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("parse auth public key: %w", err)
	}
	return &RS256Validator{publicKey: key, issuer: issuer, audience: audience, now: time.Now}, nil
}

// ValidateToken implements TokenValidator.
func (v *RS256Validator) ValidateToken(tokenString string) (requestcontext.Actor, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.publicKey, nil
	}, opts...); err != nil {
		return requestcontext.Actor{}, fmt.Errorf("validate bearer token: %w", err)
	}
	if claims.ObjectID == "" {
		return requestcontext.Actor{}, ErrMissingSubject
	}

	return requestcontext.Actor{
		Subject:    claims.ObjectID,
		Emails:     pstrings.DedupeAndTrim(claims.Emails),
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
	}, nil
}
