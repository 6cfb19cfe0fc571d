// Package outcome models the terminal result of a BPD request pipeline.
//
// Outcome is a closed sum type: the only implementations are the five
// variants declared here, so a type switch over them at the boundary is
// exhaustive.
package outcome

import (
	"errors"

	dErrors "bpd/pkg/domain-errors"
	"bpd/pkg/schema"
)

// GenericInternalMessage is the only text an internal failure exposes.
const GenericInternalMessage = "An internal error occurred while processing the request"

// Outcome is one of Success, Forbidden, NotFound, ValidationFailed or
// InternalFailed.
type Outcome interface {
	// Kind is a stable label for logs and metrics.
	Kind() string
	sealed()
}

// Success carries the validated response payload.
type Success struct {
	Payload any
}

// Forbidden means the caller may not access the requested citizen. It
// deliberately carries no detail.
type Forbidden struct{}

// NotFound means the requested entity does not exist.
type NotFound struct {
	Title  string
	Detail string
}

// ValidationFailed means the projected value did not satisfy the external
// schema. Report lists each failed field path.
type ValidationFailed struct {
	Title  string
	Report string
}

// InternalFailed hides the cause; Message is always generic or a redacted
// stage message.
type InternalFailed struct {
	Message string
}

func (Success) Kind() string          { return "success" }
func (Forbidden) Kind() string        { return "forbidden" }
func (NotFound) Kind() string         { return "not_found" }
func (ValidationFailed) Kind() string { return "validation_failed" }
func (InternalFailed) Kind() string   { return "internal_failed" }

func (Success) sealed()          {}
func (Forbidden) sealed()        {}
func (NotFound) sealed()         {}
func (ValidationFailed) sealed() {}
func (InternalFailed) sealed()   {}

// Classify turns the pipeline's terminal (payload, err) pair into exactly
// one Outcome. A nil error is a Success.
func Classify(payload any, err error) Outcome {
	if err == nil {
		return Success{Payload: payload}
	}

	var ve *schema.ValidationError
	if errors.As(err, &ve) {
		return ValidationFailed{Title: ve.Title, Report: ve.Report()}
	}

	switch dErrors.CodeOf(err) {
	case dErrors.CodeForbidden, dErrors.CodeUnauthorized:
		return Forbidden{}
	case dErrors.CodeNotFound:
		return NotFound{Title: "Not found", Detail: dErrors.MessageOf(err)}
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		msg := dErrors.MessageOf(err)
		return ValidationFailed{Title: msg, Report: msg}
	default:
		var de *dErrors.Error
		if errors.As(err, &de) && de.Code == dErrors.CodeInternal && de.Message != "" {
			return InternalFailed{Message: de.Message}
		}
		return InternalFailed{Message: GenericInternalMessage}
	}
}
