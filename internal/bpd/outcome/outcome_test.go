package outcome

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "bpd/pkg/domain-errors"
	"bpd/pkg/schema"
)

func TestClassify(t *testing.T) {
	validation := schema.New()
	validation.RequiredString("hpan", nil)
	validationErr := validation.Err("Invalid BPDTransactionList object")

	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{"nil error is success", nil, Success{Payload: "payload"}},
		{"forbidden", dErrors.New(dErrors.CodeForbidden, "forbidden"), Forbidden{}},
		{"unauthorized collapses to forbidden", dErrors.New(dErrors.CodeUnauthorized, "no actor"), Forbidden{}},
		{"not found keeps detail", dErrors.New(dErrors.CodeNotFound, "Citizen not found"), NotFound{Title: "Not found", Detail: "Citizen not found"}},
		{"schema violation", validationErr, ValidationFailed{Title: "Invalid BPDTransactionList object", Report: "hpan: is required"}},
		{"wrapped schema violation", dErrors.Wrap(validationErr, dErrors.CodeInternal, "ignored"), ValidationFailed{Title: "Invalid BPDTransactionList object", Report: "hpan: is required"}},
		{"coded validation", dErrors.New(dErrors.CodeValidation, "bad header"), ValidationFailed{Title: "bad header", Report: "bad header"}},
		{"internal keeps redacted message", dErrors.Wrap(errors.New("dial tcp: refused"), dErrors.CodeInternal, "Citizen find query error"), InternalFailed{Message: "Citizen find query error"}},
		{"unknown error is generic", errors.New("boom"), InternalFailed{Message: GenericInternalMessage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := any(nil)
			if tt.err == nil {
				payload = "payload"
			}
			assert.Equal(t, tt.want, Classify(payload, tt.err))
		})
	}
}

func TestClassify_InternalNeverLeaksCause(t *testing.T) {
	got := Classify(nil, dErrors.Wrap(errors.New("password=hunter2"), dErrors.CodeInternal, "Transactions find query error"))
	failed, ok := got.(InternalFailed)
	assert.True(t, ok)
	assert.NotContains(t, failed.Message, "hunter2")
}
