package deploy

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/exdeploy/internal/constants"
	"github.com/trebuchet-org/exdeploy/internal/domain"
)

// ExchangeContractName is the artifact deployed by DeployExchange
const ExchangeContractName = "Exchange"

// Separator is logged once the deploy call returns
const Separator = "----------------------"

// DeployExchange deploys Exchange(cryptoDevToken) from the deployer account and,
// on public networks with an explorer key, submits it for verification.
func DeployExchange(ctx context.Context, env *domain.StepEnv) error {
	accounts, err := env.GetNamedAccounts(ctx)
	if err != nil {
		return err
	}
	deployer, err := accounts.Get(domain.DeployerRole)
	if err != nil {
		return err
	}

	args := []any{constants.CryptoDevToken()}

	exchange, err := env.Deployments.Deploy(ctx, ExchangeContractName, domain.DeployOptions{
		From: deployer,
		Log:  true,
		Args: args,
	})
	if err != nil {
		return err
	}
	env.Deployments.Log(Separator)

	if !exchange.HasAddress() {
		return fmt.Errorf("%s: %w", ExchangeContractName, domain.ErrMissingAddress)
	}

	if env.Gate.Open() {
		return env.Verify(ctx, exchange.Address, args)
	}
	return nil
}
