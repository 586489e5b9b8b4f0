package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
)

// VerifyDeploymentParams contains parameters for verification
type VerifyDeploymentParams struct {
	ContractName string // empty selects interactively
	Force        bool   // re-verify even if already verified
}

// VerifyDeploymentResult contains the result of verification
type VerifyDeploymentResult struct {
	Deployment *models.Deployment
	Skipped    bool // already verified and not forced
}

// VerifyDeployment handles contract verification on block explorers
type VerifyDeployment struct {
	config   *config.RuntimeConfig
	repo     DeploymentRepository
	verifier ContractVerifier
	selector DeploymentSelector
	progress ProgressSink
}

// NewVerifyDeployment creates a new verify deployment use case
func NewVerifyDeployment(
	cfg *config.RuntimeConfig,
	repo DeploymentRepository,
	verifier ContractVerifier,
	selector DeploymentSelector,
	progress ProgressSink,
) *VerifyDeployment {
	return &VerifyDeployment{
		config:   cfg,
		repo:     repo,
		verifier: verifier,
		selector: selector,
		progress: progress,
	}
}

// Run verifies a recorded deployment on the active network
func (uc *VerifyDeployment) Run(ctx context.Context, params VerifyDeploymentParams) (*VerifyDeploymentResult, error) {
	network := uc.config.Network
	if network == nil {
		return nil, fmt.Errorf("no network configured")
	}

	gate := domain.NewVerificationGate(network.Name, uc.config.EtherscanAPIKey)
	if !gate.Open() {
		return nil, fmt.Errorf("%w on %s: %s", domain.ErrVerificationDisabled, network.Name, gate.Reason())
	}

	deployment, err := uc.find(ctx, network.Name, params.ContractName)
	if err != nil {
		return nil, err
	}

	result := &VerifyDeploymentResult{Deployment: deployment}
	if deployment.IsVerified() && !params.Force {
		result.Skipped = true
		return result, nil
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Stage:   StageVerifying,
		Message: fmt.Sprintf("Verifying %s at %s...", deployment.ContractName, deployment.Address),
		Spinner: true,
	})
	verifyErr := uc.verifier.Verify(ctx, deployment, network)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageVerifying})

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if verifyErr != nil {
		deployment.Verification.Status = models.VerificationStatusFailed
		if deployment.Verification.Reason == "" {
			deployment.Verification.Reason = verifyErr.Error()
		}
	}
	if err := uc.repo.Save(ctx, deployment); err != nil {
		return result, fmt.Errorf("failed to save verification status: %w", err)
	}

	if verifyErr != nil {
		return result, verifyErr
	}
	return result, nil
}

func (uc *VerifyDeployment) find(ctx context.Context, network, contractName string) (*models.Deployment, error) {
	if contractName != "" {
		deployment, err := uc.repo.Get(ctx, network, contractName)
		if err != nil {
			return nil, fmt.Errorf("no deployment of %s on %s: %w", contractName, network, err)
		}
		return deployment, nil
	}

	deployments, err := uc.repo.List(ctx, network)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}
	if len(deployments) == 0 {
		return nil, fmt.Errorf("no deployments on %s: %w", network, domain.ErrNotFound)
	}
	return uc.selector.SelectDeployment(ctx, deployments, "Select deployment to verify")
}
