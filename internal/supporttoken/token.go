// Package supporttoken verifies and revokes support tokens: RS256-signed JWTs
// that let a back-office operator act on behalf of a citizen without the
// fiscal code appearing in the request.
package supporttoken

import (
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/blake2b"

	"bpd/pkg/domain"
)

// Claims is the signed payload of a support token.
type Claims struct {
	FiscalCode string `json:"fiscal_code"`
	jwt.RegisteredClaims
}

// Verified is the trusted content of a token that passed verification.
type Verified struct {
	FiscalCode  domain.FiscalCode
	ExpiresAt   *time.Time
	Fingerprint string
}

// Verification failure causes. They are only ever used internally; callers
// collapse all of them into a single forbidden outcome.
var (
	ErrMalformed         = errors.New("support token malformed")
	ErrInvalidSignature  = errors.New("support token signature invalid")
	ErrExpired           = errors.New("support token expired")
	ErrInvalidClaims     = errors.New("support token claims invalid")
	ErrInvalidFiscalCode = errors.New("support token fiscal code invalid")
)

// Verifier checks support tokens against a configured RSA public key.
type Verifier struct {
	publicKey *rsa.PublicKey
	issuer    string
	audience  string
	now       func() time.Time
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithIssuer requires the iss claim to equal issuer.
func WithIssuer(issuer string) VerifierOption {
	return func(v *Verifier) { v.issuer = issuer }
}

// WithAudience requires aud to contain audience.
func WithAudience(audience string) VerifierOption {
	return func(v *Verifier) { v.audience = audience }
}

// WithClock overrides the time source used for exp/nbf checks.
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

// NewVerifier builds a Verifier for the given public key.
func NewVerifier(publicKey *rsa.PublicKey, opts ...VerifierOption) *Verifier {
	v := &Verifier{publicKey: publicKey, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// NewVerifierFromPEM parses a PEM encoded RSA public key or certificate.
func NewVerifierFromPEM(pemData string, opts ...VerifierOption) (*Verifier, error) {
	key, err := ParsePublicKey(pemData)
	if err != nil {
		return nil, err
	}
	return NewVerifier(key, opts...), nil
}

// ParsePublicKey accepts a PEM public key (PKIX or PKCS1) or an X.509
// certificate and returns its RSA key.
func ParsePublicKey(pemData string) (*rsa.PublicKey, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemData))
	if err != nil {
		return nil, fmt.Errorf("parse rsa public key: %w", err)
	}
	return key, nil
}

// Verify checks signature, algorithm, issuer, audience and expiry (when an
// exp claim is present), then extracts the fiscal code.
func (v *Verifier) Verify(token domain.SupportToken) (*Verified, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(string(token), claims, func(*jwt.Token) (any, error) {
		return v.publicKey, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, ErrInvalidClaims
		}
	}

	fiscalCode, err := domain.ParseFiscalCode(claims.FiscalCode)
	if err != nil {
		return nil, ErrInvalidFiscalCode
	}

	out := &Verified{
		FiscalCode:  fiscalCode,
		Fingerprint: Fingerprint(token),
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		out.ExpiresAt = &exp
	}
	return out, nil
}

// Fingerprint is a stable, non-reversible key for a token. Blacklist entries
// and logs use it instead of the token itself.
func Fingerprint(token domain.SupportToken) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Issuer signs support tokens. Production tokens are minted by the support
// portal; this is used by tooling and tests.
type Issuer struct {
	privateKey *rsa.PrivateKey
	issuer     string
	audience   string
}

// NewIssuer builds an Issuer with the given signing key.
func NewIssuer(privateKey *rsa.PrivateKey, issuer, audience string) *Issuer {
	return &Issuer{privateKey: privateKey, issuer: issuer, audience: audience}
}

// Issue returns a signed token for fiscalCode. A non-positive ttl omits exp.
func (i *Issuer) Issue(fiscalCode domain.FiscalCode, ttl time.Duration) (domain.SupportToken, error) {
	now := time.Now()
	claims := Claims{
		FiscalCode: fiscalCode.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   i.issuer,
		},
	}
	if i.audience != "" {
		claims.Audience = jwt.ClaimStrings{i.audience}
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(i.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign support token: %w", err)
	}
	return domain.SupportToken(signed), nil
}
