package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/trebuchet-org/exdeploy/internal/deploy"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
)

// RunDeploymentsParams contains parameters for a deploy run
type RunDeploymentsParams struct {
	Tags        []string
	SkipConfirm bool
	Out         io.Writer
}

// RunDeploymentsResult contains the outcome of a deploy run
type RunDeploymentsResult struct {
	Network     *config.Network
	Gate        domain.VerificationGate
	Steps       []string
	Deployments []*models.Deployment
	// Verified holds every deployment submitted for verification, whatever the outcome
	Verified []*models.Deployment
}

// RunDeployments executes the deploy steps against the active network
type RunDeployments struct {
	config    *config.RuntimeConfig
	steps     []deploy.Step
	provider  DeploymentsProvider
	accounts  AccountResolver
	repo      DeploymentRepository
	verifier  ContractVerifier
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
}

// NewRunDeployments creates a new RunDeployments use case
func NewRunDeployments(
	cfg *config.RuntimeConfig,
	steps []deploy.Step,
	provider DeploymentsProvider,
	accounts AccountResolver,
	repo DeploymentRepository,
	verifier ContractVerifier,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *RunDeployments {
	return &RunDeployments{
		config:    cfg,
		steps:     steps,
		provider:  provider,
		accounts:  accounts,
		repo:      repo,
		verifier:  verifier,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("component", "runner"),
	}
}

// Run executes the selected steps in order. The first failing step stops the run.
func (uc *RunDeployments) Run(ctx context.Context, params RunDeploymentsParams) (*RunDeploymentsResult, error) {
	network := uc.config.Network
	if network == nil {
		return nil, fmt.Errorf("no network configured")
	}
	out := params.Out
	if out == nil {
		out = io.Discard
	}

	steps := deploy.Select(uc.steps, params.Tags)
	if len(steps) == 0 {
		return nil, fmt.Errorf("no deploy steps match tags %v", params.Tags)
	}

	if err := uc.confirm(ctx, network, params.SkipConfirm); err != nil {
		return nil, err
	}

	result := &RunDeploymentsResult{
		Network: network,
		Gate:    domain.NewVerificationGate(network.Name, uc.config.EtherscanAPIKey),
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageConnecting,
		Message: fmt.Sprintf("Connecting to %s", network.Name),
		Spinner: true,
	})
	session, err := uc.provider.Open(ctx, network, out)
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageConnecting})
		return nil, err
	}
	defer session.Close()

	env := &domain.StepEnv{
		Deployments: session,
		GetNamedAccounts: func(ctx context.Context) (domain.NamedAccounts, error) {
			return uc.accounts.NamedAccounts(ctx, network.Name)
		},
		Network: network.Name,
		ChainID: network.ChainID,
		Gate:    result.Gate,
		Verify:  uc.verifyFunc(network, result),
	}

	uc.log.Debug("running deploy steps", "network", network.Name, "steps", len(steps), "verification", result.Gate.Open())

	for i, step := range steps {
		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageRunningStep,
			Current: i + 1,
			Total:   len(steps),
			Message: step.Name,
		})

		err := step.Run(ctx, env)
		result.Steps = append(result.Steps, step.Name)
		if err != nil {
			result.Deployments = uc.collect(session, result.Verified)
			return result, fmt.Errorf("step %s failed: %w", step.Name, err)
		}
	}

	result.Deployments = uc.collect(session, result.Verified)

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageCompleted,
		Message: "Deployments completed",
	})

	return result, nil
}

// confirm asks before broadcasting to a live network. Only --yes skips the question;
// in non-interactive mode the confirmer declines.
func (uc *RunDeployments) confirm(ctx context.Context, network *config.Network, skip bool) error {
	if domain.IsDevelopmentNetwork(network.Name) || skip {
		return nil
	}

	ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Broadcast deployments to %s (chain %d)", network.Name, network.ChainID))
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAborted
	}
	return nil
}

// verifyFunc is the verify collaborator handed to steps. Verification problems are
// reported and recorded on the deployment but never fail the step; cancellation does.
func (uc *RunDeployments) verifyFunc(network *config.Network, result *RunDeploymentsResult) domain.VerifyFunc {
	return func(ctx context.Context, address string, args []any) error {
		deployment, err := uc.repo.GetByAddress(ctx, network.Name, address)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			uc.progress.Error(fmt.Sprintf("Cannot verify %s: %v", address, err))
			return nil
		}

		if got := models.FormatArgs(args); !slices.Equal(got, deployment.Args) {
			uc.progress.Error(fmt.Sprintf("Cannot verify %s: constructor arguments %v differ from the recorded %v",
				deployment.ContractName, got, deployment.Args))
			return nil
		}

		uc.progress.OnProgress(ctx, ProgressEvent{
			Stage:   StageVerifying,
			Message: fmt.Sprintf("Verifying %s on %s...", deployment.ContractName, network.Name),
			Spinner: true,
		})
		err = uc.verifier.Verify(ctx, deployment, network)
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageVerifying})

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			deployment.Verification.Status = models.VerificationStatusFailed
			if deployment.Verification.Reason == "" {
				deployment.Verification.Reason = err.Error()
			}
			uc.log.Warn("verification failed", "contract", deployment.ContractName, "address", address, "error", err)
			uc.progress.Error(fmt.Sprintf("Verification of %s failed: %v", deployment.ContractName, err))
		} else {
			uc.progress.Info(fmt.Sprintf("Verified %s at %s", deployment.ContractName, deployment.Address))
		}

		if err := uc.repo.Save(ctx, deployment); err != nil {
			uc.log.Warn("failed to record verification", "contract", deployment.ContractName, "error", err)
		}
		result.Verified = append(result.Verified, deployment)
		return nil
	}
}

// collect returns the session's deployments with verification outcomes applied
func (uc *RunDeployments) collect(session DeploymentSession, verified []*models.Deployment) []*models.Deployment {
	recorded := session.Recorded()
	for i, dep := range recorded {
		for _, v := range verified {
			if v.ID() == dep.ID() {
				v.Newly = dep.Newly
				recorded[i] = v
			}
		}
	}
	return recorded
}
