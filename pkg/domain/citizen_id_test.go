package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "bpd/pkg/domain-errors"
)

func TestParseFiscalCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"plain", "RSSMRA80A01H501U", true},
		{"omocodia substitutions", "RSSMRALPALMHRLMU", true},
		{"surrounding whitespace", "  AAABBB01C02D345D ", true},
		{"lowercase", "rssmra80a01h501u", false},
		{"too short", "RSSMRA80A01H501", false},
		{"invalid month letter", "RSSMRA80Z01H501U", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc, err := ParseFiscalCode(tt.input)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Len(t, fc.String(), 16)
		})
	}
}

func TestFiscalCode_Redacted(t *testing.T) {
	assert.Equal(t, "RSS*************", FiscalCode("RSSMRA80A01H501U").Redacted())
}

func TestParseCitizenID(t *testing.T) {
	t.Run("fiscal code is direct", func(t *testing.T) {
		id, err := ParseCitizenID("RSSMRA80A01H501U")
		require.NoError(t, err)
		assert.Equal(t, CitizenIDDirect, id.Kind())
		fc, ok := id.FiscalCode()
		assert.True(t, ok)
		assert.Equal(t, FiscalCode("RSSMRA80A01H501U"), fc)
		_, ok = id.SupportToken()
		assert.False(t, ok)
	})

	t.Run("jws shape is delegated", func(t *testing.T) {
		id, err := ParseCitizenID("eyJhbGciOiJSUzI1NiJ9.eyJmaXNjYWxfY29kZSI6IngifQ.c2ln")
		require.NoError(t, err)
		assert.Equal(t, CitizenIDDelegated, id.Kind())
		_, ok := id.FiscalCode()
		assert.False(t, ok)
	})

	t.Run("anything else is a validation error", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "abc", "a.b", "a.b.c.d", "a.b.c d"} {
			id, err := ParseCitizenID(raw)
			require.Error(t, err, raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation), raw)
			assert.True(t, id.IsZero(), raw)
		}
	})
}

func TestCitizenIDKind_String(t *testing.T) {
	assert.Equal(t, "FiscalCode", CitizenIDDirect.String())
	assert.Equal(t, "SupportToken", CitizenIDDelegated.String())
	assert.Equal(t, "unknown", CitizenIDKind(0).String())
}
