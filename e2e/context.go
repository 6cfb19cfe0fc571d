package e2e

import (
	"bytes"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestContext holds the state of one scenario against a running server.
type TestContext struct {
	BaseURL string
	client  *http.Client

	authKey         *rsa.PrivateKey
	authIssuer      string
	authAudience    string
	supportTokenKey *rsa.PrivateKey

	accessToken  string
	supportToken string

	lastStatus int
	lastHeader http.Header
	lastBody   []byte
}

// NewTestContextFromEnv reads the server location and signing keys.
// E2E_AUTH_PRIVATE_KEY and E2E_SUPPORT_TOKEN_PRIVATE_KEY must be the private
// halves of AUTH_PUBLIC_RSA_KEY and JWT_SUPPORT_TOKEN_PUBLIC_RSA_CERTIFICATE.
func NewTestContextFromEnv() (*TestContext, error) {
	authKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(os.Getenv("E2E_AUTH_PRIVATE_KEY")))
	if err != nil {
		return nil, fmt.Errorf("E2E_AUTH_PRIVATE_KEY: %w", err)
	}
	supportKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(os.Getenv("E2E_SUPPORT_TOKEN_PRIVATE_KEY")))
	if err != nil {
		return nil, fmt.Errorf("E2E_SUPPORT_TOKEN_PRIVATE_KEY: %w", err)
	}
	return &TestContext{
		BaseURL:         strings.TrimRight(os.Getenv("E2E_BASE_URL"), "/"),
		client:          &http.Client{Timeout: 10 * time.Second},
		authKey:         authKey,
		authIssuer:      os.Getenv("AUTH_ISSUER"),
		authAudience:    os.Getenv("AUTH_AUDIENCE"),
		supportTokenKey: supportKey,
	}, nil
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.accessToken = ""
	tc.supportToken = ""
	tc.lastStatus = 0
	tc.lastHeader = nil
	tc.lastBody = nil
}

// SignAccessToken issues an operator bearer token for subject.
func (tc *TestContext) SignAccessToken(subject string) error {
	claims := jwt.MapClaims{
		"oid":         subject,
		"emails":      []string{subject + "@e2e.test"},
		"given_name":  "E2E",
		"family_name": "Operator",
		"exp":         time.Now().Add(10 * time.Minute).Unix(),
	}
	if tc.authIssuer != "" {
		claims["iss"] = tc.authIssuer
	}
	if tc.authAudience != "" {
		claims["aud"] = tc.authAudience
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(tc.authKey)
	if err != nil {
		return err
	}
	tc.accessToken = token
	return nil
}

// SignSupportToken issues a support token for fiscalCode. A nil key uses the
// configured support token key.
func (tc *TestContext) SignSupportToken(fiscalCode string, key *rsa.PrivateKey) error {
	if key == nil {
		key = tc.supportTokenKey
	}
	claims := jwt.MapClaims{
		"fiscal_code": fiscalCode,
		"exp":         time.Now().Add(10 * time.Minute).Unix(),
	}
	if iss := os.Getenv("JWT_SUPPORT_TOKEN_ISSUER"); iss != "" {
		claims["iss"] = iss
	}
	if aud := os.Getenv("JWT_SUPPORT_TOKEN_AUDIENCE"); aud != "" {
		claims["aud"] = aud
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return err
	}
	tc.supportToken = token
	return nil
}

// GetSupportToken returns the last issued support token.
func (tc *TestContext) GetSupportToken() string { return tc.supportToken }

// Do sends a request with the bearer token (when set) and extra headers.
func (tc *TestContext) Do(method, path string, headers map[string]string) error {
	req, err := http.NewRequest(method, tc.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastHeader = resp.Header
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

// GetLastStatusCode returns the status of the last response.
func (tc *TestContext) GetLastStatusCode() int { return tc.lastStatus }

// GetLastHeader returns a header of the last response.
func (tc *TestContext) GetLastHeader(name string) string { return tc.lastHeader.Get(name) }

// GetResponseField decodes the last body and returns a top-level field.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var body map[string]any
	if err := json.NewDecoder(bytes.NewReader(tc.lastBody)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w (body %q)", err, tc.lastBody)
	}
	v, ok := body[field]
	if !ok {
		return nil, fmt.Errorf("field %q not in response %s", field, tc.lastBody)
	}
	return v, nil
}
