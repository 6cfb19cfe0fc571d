package supporttoken

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bpd/pkg/domain"
)

const testFiscalCode domain.FiscalCode = "RSSMRA80A01H501U"

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func publicPEM(t *testing.T, key *rsa.PrivateKey) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func TestVerifier_Verify(t *testing.T) {
	key := newKey(t)
	issuer := NewIssuer(key, "support-portal", "bpd")
	verifier, err := NewVerifierFromPEM(publicPEM(t, key), WithIssuer("support-portal"), WithAudience("bpd"))
	require.NoError(t, err)

	t.Run("valid token yields the embedded fiscal code", func(t *testing.T) {
		token, err := issuer.Issue(testFiscalCode, time.Hour)
		require.NoError(t, err)

		verified, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, testFiscalCode, verified.FiscalCode)
		require.NotNil(t, verified.ExpiresAt)
		assert.Equal(t, Fingerprint(token), verified.Fingerprint)
	})

	t.Run("token without exp is accepted", func(t *testing.T) {
		token, err := issuer.Issue(testFiscalCode, 0)
		require.NoError(t, err)

		verified, err := verifier.Verify(token)
		require.NoError(t, err)
		assert.Nil(t, verified.ExpiresAt)
	})

	t.Run("token signed by another key is rejected", func(t *testing.T) {
		token, err := NewIssuer(newKey(t), "support-portal", "bpd").Issue(testFiscalCode, time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := issuer.Issue(testFiscalCode, time.Minute)
		require.NoError(t, err)

		later := NewVerifier(&key.PublicKey, WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) }))
		_, err = later.Verify(token)
		assert.ErrorIs(t, err, ErrExpired)
	})

	t.Run("wrong issuer is rejected", func(t *testing.T) {
		token, err := NewIssuer(key, "someone-else", "bpd").Issue(testFiscalCode, time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("wrong audience is rejected", func(t *testing.T) {
		token, err := NewIssuer(key, "support-portal", "other-api").Issue(testFiscalCode, time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("HS256 token is rejected", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{FiscalCode: testFiscalCode.String()}).
			SignedString([]byte("shared"))
		require.NoError(t, err)

		_, err = verifier.Verify(domain.SupportToken(signed))
		assert.Error(t, err)
	})

	t.Run("malformed fiscal code claim is rejected", func(t *testing.T) {
		token, err := issuer.Issue(domain.FiscalCode("not-a-code"), time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidFiscalCode)
	})

	t.Run("garbage is malformed", func(t *testing.T) {
		_, err := verifier.Verify("aaa.bbb.ccc")
		assert.ErrorIs(t, err, ErrMalformed)
	})
}

func TestParsePublicKey_Invalid(t *testing.T) {
	_, err := ParsePublicKey("not a pem")
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("aaa.bbb.ccc")
	assert.Len(t, a, 64)
	assert.Equal(t, a, Fingerprint("aaa.bbb.ccc"))
	assert.NotEqual(t, a, Fingerprint("aaa.bbb.ccd"))
	assert.NotContains(t, a, "aaa")
}
