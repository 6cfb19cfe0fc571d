package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publicKeyPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func baseEnv(t *testing.T) map[string]string {
	key := publicKeyPEM(t)
	return map[string]string{
		"DATABASE_URL":        "postgres://bpd@localhost/bpd",
		"AUDIT_DATABASE_URL":  "postgres://bpd@localhost/audit",
		"AUTH_PUBLIC_RSA_KEY": key,
		"JWT_SUPPORT_TOKEN_PUBLIC_RSA_CERTIFICATE": key,
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: baseEnv(t)})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, AuditBackendPostgres, cfg.Audit.Backend)
	assert.Equal(t, "dashboard_logs", cfg.Audit.TableName)
	assert.Equal(t, 24*time.Hour, cfg.SupportToken.BlacklistTTL)
	assert.Equal(t, 5*time.Minute, cfg.Directory.CacheTTL)
	assert.Equal(t, 2, cfg.QueryMaxAttempts)
	assert.False(t, cfg.Directory.Enabled())
}

func TestParse_KafkaBrokers(t *testing.T) {
	e := baseEnv(t)
	e["AUDIT_BACKEND"] = "kafka"
	e["KAFKA_BROKERS"] = "broker-1:9092, broker-2:9092,broker-1:9092"

	cfg, err := Parse(env.Options{Environment: e})
	require.NoError(t, err)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Audit.Brokers)
}

func TestParse_AuditBackendIsCaseInsensitive(t *testing.T) {
	e := baseEnv(t)
	delete(e, "AUDIT_DATABASE_URL")
	e["AUDIT_BACKEND"] = " Kafka"
	e["KAFKA_BROKERS"] = "broker-1:9092"

	cfg, err := Parse(env.Options{Environment: e})
	require.NoError(t, err)
	assert.Equal(t, AuditBackendKafka, cfg.Audit.Backend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{"missing database url", func(e map[string]string) { delete(e, "DATABASE_URL") }, "DATABASE_URL is required"},
		{"unparsable auth key", func(e map[string]string) { e["AUTH_PUBLIC_RSA_KEY"] = "nope" }, "AUTH_PUBLIC_RSA_KEY"},
		{"missing support token key", func(e map[string]string) { delete(e, "JWT_SUPPORT_TOKEN_PUBLIC_RSA_CERTIFICATE") }, "JWT_SUPPORT_TOKEN_PUBLIC_RSA_CERTIFICATE is required"},
		{"unknown audit backend", func(e map[string]string) { e["AUDIT_BACKEND"] = "s3" }, `AUDIT_BACKEND "s3"`},
		{"kafka without brokers", func(e map[string]string) { e["AUDIT_BACKEND"] = "kafka" }, "KAFKA_BROKERS is required"},
		{"kafka with blank brokers", func(e map[string]string) {
			e["AUDIT_BACKEND"] = "kafka"
			e["KAFKA_BROKERS"] = " , "
		}, "KAFKA_BROKERS is required"},
		{"zero query attempts", func(e map[string]string) { e["QUERY_MAX_ATTEMPTS"] = "0" }, "QUERY_MAX_ATTEMPTS"},
		{"directory without secret", func(e map[string]string) {
			e["ADB2C_TENANT_ID"] = "tenant"
			e["ADB2C_CLIENT_ID"] = "client"
			e["ADB2C_ADMIN_GROUP_NAME"] = "bpd-admins"
		}, "ADB2C_CLIENT_KEY is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := baseEnv(t)
			tt.mutate(e)
			_, err := Parse(env.Options{Environment: e})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDirectory_ResolvedTokenURL(t *testing.T) {
	d := Directory{TenantID: "contoso"}
	assert.Equal(t, "https://login.microsoftonline.com/contoso/oauth2/v2.0/token", d.ResolvedTokenURL())

	d.TokenURL = "http://localhost:9999/token"
	assert.Equal(t, "http://localhost:9999/token", d.ResolvedTokenURL())
}
