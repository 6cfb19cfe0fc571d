package bpd

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Do(method, path string, headers map[string]string) error
	SignAccessToken(subject string) error
	SignSupportToken(fiscalCode string, key *rsa.PrivateKey) error
	GetSupportToken() string
}

const citizenHeader = "x-citizen-id"

var resources = map[string]string{
	"citizen profile": "/api/v1/bpd/citizen",
	"awards":          "/api/v1/bpd/awards",
	"transactions":    "/api/v1/bpd/transactions",
}

// RegisterSteps registers BPD back-office step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &bpdSteps{tc: tc}

	// Caller steps
	ctx.Step(`^I am an authenticated operator "([^"]*)"$`, steps.authenticatedOperator)
	ctx.Step(`^I hold a support token for "([^"]*)"$`, steps.supportTokenFor)
	ctx.Step(`^I hold a support token for "([^"]*)" signed by an unknown key$`, steps.forgedSupportTokenFor)

	// Request steps
	ctx.Step(`^I request the (citizen profile|awards|transactions) for "([^"]*)"$`, steps.requestFor)
	ctx.Step(`^I request the (citizen profile|awards|transactions) with my support token$`, steps.requestWithSupportToken)
	ctx.Step(`^I revoke my support token$`, steps.revokeSupportToken)
}

type bpdSteps struct {
	tc TestContext
}

func (s *bpdSteps) authenticatedOperator(ctx context.Context, subject string) error {
	return s.tc.SignAccessToken(subject)
}

func (s *bpdSteps) supportTokenFor(ctx context.Context, fiscalCode string) error {
	return s.tc.SignSupportToken(fiscalCode, nil)
}

func (s *bpdSteps) forgedSupportTokenFor(ctx context.Context, fiscalCode string) error {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return err
	}
	return s.tc.SignSupportToken(fiscalCode, key)
}

func (s *bpdSteps) requestFor(ctx context.Context, resource, citizenID string) error {
	return s.tc.Do(http.MethodGet, resources[resource], map[string]string{citizenHeader: citizenID})
}

func (s *bpdSteps) requestWithSupportToken(ctx context.Context, resource string) error {
	return s.requestFor(ctx, resource, s.tc.GetSupportToken())
}

func (s *bpdSteps) revokeSupportToken(ctx context.Context) error {
	return s.tc.Do(http.MethodDelete, "/api/v1/bpd/support-token", map[string]string{citizenHeader: s.tc.GetSupportToken()})
}
