package model

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Backend is the node surface a signer needs for contract calls, transaction
// submission, receipts and native balances. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Signer is the signing handle bound to one wallet account.
type Signer interface {
	Address(ctx context.Context) (common.Address, error)
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)
	Transactor(ctx context.Context) (*bind.TransactOpts, error)
	Backend() Backend
}
