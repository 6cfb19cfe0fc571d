package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GetLastStatusCode() int
	GetLastHeader(name string) string
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers response assertions shared by all features
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response content type should be "([^"]*)"$`, steps.contentTypeShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be an empty list$`, steps.fieldShouldBeEmptyList)
	ctx.Step(`^the response should carry a request id$`, steps.shouldCarryRequestID)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) statusShouldBe(ctx context.Context, status int) error {
	if got := s.tc.GetLastStatusCode(); got != status {
		return fmt.Errorf("expected status %d, got %d", status, got)
	}
	return nil
}

func (s *commonSteps) contentTypeShouldBe(ctx context.Context, contentType string) error {
	if got := s.tc.GetLastHeader("Content-Type"); !strings.HasPrefix(got, contentType) {
		return fmt.Errorf("expected content type %q, got %q", contentType, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, expected string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != expected {
		return fmt.Errorf("expected %s=%q, got %q", field, expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeEmptyList(ctx context.Context, field string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	list, ok := v.([]any)
	if !ok {
		return fmt.Errorf("expected %s to be a list, got %T", field, v)
	}
	if len(list) != 0 {
		return fmt.Errorf("expected %s to be empty, got %d items", field, len(list))
	}
	return nil
}

func (s *commonSteps) shouldCarryRequestID(ctx context.Context) error {
	if s.tc.GetLastHeader("X-Request-ID") == "" {
		return fmt.Errorf("response has no X-Request-ID header")
	}
	return nil
}
