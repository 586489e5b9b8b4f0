package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

const (
	VerifierEtherscan = "etherscan"
	VerifierSourcify  = "sourcify"

	statusVerified = "verified"
	statusFailed   = "failed"
)

// CommandRunner runs forge with args in dir and returns its combined output
type CommandRunner func(ctx context.Context, dir string, args ...string) ([]byte, error)

func execForge(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "forge", args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// ForgeVerifier verifies contract sources through `forge verify-contract`
type ForgeVerifier struct {
	projectRoot string
	apiKey      string
	verifiers   []string
	etherscan   map[string]config.EtherscanConfig
	run         CommandRunner
	log         *slog.Logger
	now         func() time.Time
}

// NewForgeVerifier creates a verifier for the configured [verify] verifiers
func NewForgeVerifier(cfg *config.RuntimeConfig, log *slog.Logger) *ForgeVerifier {
	v := &ForgeVerifier{
		projectRoot: cfg.ProjectRoot,
		apiKey:      cfg.EtherscanAPIKey,
		verifiers:   config.DefaultVerifiers,
		run:         execForge,
		log:         log.With("component", "verifier"),
		now:         time.Now,
	}
	if cfg.ExdeployConfig != nil && len(cfg.ExdeployConfig.Verify.Verifiers) > 0 {
		v.verifiers = cfg.ExdeployConfig.Verify.Verifiers
	}
	if cfg.FoundryConfig != nil {
		v.etherscan = cfg.FoundryConfig.Etherscan
	}
	return v
}

// Verify submits deployment to every configured verifier and records the outcome on it.
// An error is returned only when no verifier succeeded.
func (v *ForgeVerifier) Verify(ctx context.Context, deployment *models.Deployment, network *config.Network) error {
	if network.ChainID == 0 {
		return fmt.Errorf("cannot verify on %s: unknown chain ID", network.Name)
	}
	if deployment.Artifact.Path == "" {
		return fmt.Errorf("cannot verify %s: source path unknown", deployment.ContractName)
	}

	if deployment.Verification.Verifiers == nil {
		deployment.Verification.Verifiers = make(map[string]models.VerifierStatus)
	}

	for _, verifier := range v.verifiers {
		args, err := v.buildArgs(verifier, deployment, network)
		if err == nil {
			v.log.Debug("running forge", "args", strings.Join(args, " "))
			err = v.executeForgeVerify(ctx, args)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err != nil {
			deployment.Verification.Verifiers[verifier] = models.VerifierStatus{
				Status: statusFailed,
				Reason: err.Error(),
			}
			continue
		}
		deployment.Verification.Verifiers[verifier] = models.VerifierStatus{
			Status: statusVerified,
			URL:    v.buildURL(verifier, network, deployment.Address),
		}
	}

	v.updateOverallStatus(deployment)

	if deployment.Verification.Status == models.VerificationStatusFailed {
		return fmt.Errorf("%w: %s", domain.ErrVerificationFailed, deployment.Verification.Reason)
	}
	return nil
}

// buildArgs builds the forge verify-contract args for one verifier
func (v *ForgeVerifier) buildArgs(verifier string, deployment *models.Deployment, network *config.Network) ([]string, error) {
	args := []string{
		"verify-contract",
		deployment.Address,
		fmt.Sprintf("%s:%s", deployment.Artifact.Path, deployment.ContractName),
		"--chain-id", fmt.Sprintf("%d", network.ChainID),
	}

	switch verifier {
	case VerifierEtherscan:
		if v.apiKey == "" {
			return nil, errors.New("ETHERSCAN_API_KEY not set")
		}
		args = append(args, "--etherscan-api-key", v.apiKey)
		// forge picks the API endpoint from the chain id unless foundry.toml names one
		if etherscan, ok := v.etherscan[network.Name]; ok && etherscan.URL != "" {
			args = append(args, "--verifier-url", etherscan.URL)
		}
	case VerifierSourcify:
		args = append(args, "--verifier", "sourcify")
	default:
		return nil, fmt.Errorf("unsupported verifier: %s", verifier)
	}

	if deployment.Artifact.CompilerVersion != "" {
		args = append(args, "--compiler-version", deployment.Artifact.CompilerVersion)
	}
	if constructorArgs := strings.TrimPrefix(deployment.ConstructorArgs, "0x"); constructorArgs != "" {
		args = append(args, "--constructor-args", constructorArgs)
	}

	return append(args, "--watch"), nil
}

// executeForgeVerify executes a forge verify-contract command
func (v *ForgeVerifier) executeForgeVerify(ctx context.Context, args []string) error {
	output, err := v.run(ctx, v.projectRoot, args...)
	outputStr := strings.TrimSpace(string(output))

	if alreadyVerified(outputStr) {
		return nil
	}
	if err != nil {
		if outputStr == "" {
			return fmt.Errorf("forge verify-contract: %w", err)
		}
		return fmt.Errorf("verification failed: %s", outputStr)
	}
	if strings.Contains(outputStr, "Contract successfully verified") || strings.Contains(outputStr, "Pass - Verified") {
		return nil
	}

	return fmt.Errorf("verification status unclear: %s", outputStr)
}

func alreadyVerified(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "already verified")
}

// buildURL builds the public page of a verified contract
func (v *ForgeVerifier) buildURL(verifier string, network *config.Network, address string) string {
	switch verifier {
	case VerifierEtherscan:
		if network.ExplorerURL == "" {
			return ""
		}
		return fmt.Sprintf("%s/address/%s#code", strings.TrimSuffix(network.ExplorerURL, "/"), address)
	case VerifierSourcify:
		return fmt.Sprintf("https://repo.sourcify.dev/contracts/full_match/%d/%s/", network.ChainID, address)
	default:
		return ""
	}
}

// updateOverallStatus updates the overall verification status based on individual verifiers
func (v *ForgeVerifier) updateOverallStatus(deployment *models.Deployment) {
	verifiers := deployment.Verification.Verifiers
	if len(verifiers) == 0 {
		deployment.Verification.Status = models.VerificationStatusUnverified
		return
	}

	names := make([]string, 0, len(verifiers))
	for name := range verifiers {
		names = append(names, name)
	}
	sort.Strings(names)

	verifiedCount := 0
	var reasons []string
	for _, name := range names {
		status := verifiers[name]
		switch status.Status {
		case statusVerified:
			verifiedCount++
			if deployment.Verification.EtherscanURL == "" && status.URL != "" {
				deployment.Verification.EtherscanURL = status.URL
			}
		case statusFailed:
			reasons = append(reasons, fmt.Sprintf("%s: %s", name, status.Reason))
		}
	}

	switch {
	case verifiedCount == len(verifiers):
		deployment.Verification.Status = models.VerificationStatusVerified
		deployment.Verification.Reason = ""
	case verifiedCount > 0:
		deployment.Verification.Status = models.VerificationStatusPartial
		deployment.Verification.Reason = strings.Join(reasons, "; ")
	default:
		deployment.Verification.Status = models.VerificationStatusFailed
		deployment.Verification.Reason = strings.Join(reasons, "; ")
	}

	if verifiedCount > 0 {
		now := v.now()
		deployment.Verification.VerifiedAt = &now
	}
}

var _ usecase.ContractVerifier = (*ForgeVerifier)(nil)
