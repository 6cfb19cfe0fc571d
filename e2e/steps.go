package e2e

import (
	"github.com/cucumber/godog"

	"bpd/e2e/steps/bpd"
	"bpd/e2e/steps/common"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (status and body assertions)
	common.RegisterSteps(ctx, tc)

	// Register BPD back-office steps
	bpd.RegisterSteps(ctx, tc)
}
