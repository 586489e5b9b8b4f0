package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// client is what both ethclient and the simulated backend provide
type client interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Backend deploys contracts and reads code through an RPC client
type Backend struct {
	client  client
	chainID *big.Int
	// commit mines pending transactions on the in-process chain, nil elsewhere
	commit func()
	close  func()
}

// ChainID returns the chain the backend is connected to
func (b *Backend) ChainID() uint64 {
	return b.chainID.Uint64()
}

// DeployContract signs and sends a contract creation transaction
func (b *Backend) DeployContract(ctx context.Context, key *ecdsa.PrivateKey, parsed abi.ABI, bytecode []byte, args ...any) (*types.Transaction, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(key, b.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx

	_, tx, _, err := bind.DeployContract(opts, parsed, bytecode, b.client, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send deployment transaction: %w", err)
	}

	if b.commit != nil {
		b.commit()
	}
	return tx, nil
}

// WaitDeployed waits for tx to be mined and checks that code landed at the new address
func (b *Backend) WaitDeployed(ctx context.Context, tx *types.Transaction) (*usecase.ChainReceipt, error) {
	receipt, err := bind.WaitMined(ctx, b.client, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", tx.Hash().Hex(), err)
	}

	result := &usecase.ChainReceipt{
		ContractAddress: receipt.ContractAddress,
		TxHash:          receipt.TxHash,
		GasUsed:         receipt.GasUsed,
		Status:          receipt.Status,
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return result, fmt.Errorf("deployment transaction %s reverted", tx.Hash().Hex())
	}

	code, err := b.CodeAt(ctx, receipt.ContractAddress)
	if err != nil {
		return result, err
	}
	if len(code) == 0 {
		return result, bind.ErrNoCodeAfterDeploy
	}

	return result, nil
}

// CodeAt returns the runtime code at address in the latest block
func (b *Backend) CodeAt(ctx context.Context, address common.Address) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	code, err := b.client.CodeAt(ctx, address, nil)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("timeout reading code at %s", address.Hex())
		}
		return nil, fmt.Errorf("failed to get code at %s: %w", address.Hex(), err)
	}
	return code, nil
}

// Close releases the connection
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

var _ usecase.ChainBackend = (*Backend)(nil)
