// Package deploy contains the deploy steps executed by the runner, in order.
package deploy

import (
	"context"

	"github.com/samber/lo"
	"github.com/trebuchet-org/exdeploy/internal/domain"
)

// StepFunc is the body of a deploy step
type StepFunc func(ctx context.Context, env *domain.StepEnv) error

// Step is a named, tagged unit of deployment work
type Step struct {
	Name string
	Tags []string
	Run  StepFunc
}

// Steps returns every registered step in execution order
func Steps() []Step {
	return []Step{
		{
			Name: "00_deploy_exchange",
			Tags: []string{"all", ExchangeContractName},
			Run:  DeployExchange,
		},
	}
}

// Select returns the steps carrying at least one of tags. No tags selects everything.
func Select(steps []Step, tags []string) []Step {
	if len(tags) == 0 {
		return steps
	}
	return lo.Filter(steps, func(s Step, _ int) bool {
		return lo.Some(s.Tags, tags)
	})
}
