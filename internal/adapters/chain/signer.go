package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ohmynofan/weth-wrapper/internal/domain/model"
)

// Signer is a key-backed signing handle for one account.
type Signer struct {
	address common.Address
	key     *ecdsa.PrivateKey
	chainID *big.Int
	backend model.Backend
}

func (s *Signer) Address(_ context.Context) (common.Address, error) {
	return s.address, nil
}

func (s *Signer) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	if s.backend == nil {
		return nil, fmt.Errorf("[BalanceAt] Error : signer has no backend")
	}
	balance, err := s.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("[BalanceAt] Error : failed to fetch wallet balance: %w", err)
	}
	return balance, nil
}

func (s *Signer) Transactor(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, fmt.Errorf("[Transactor] Error : %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

func (s *Signer) Backend() model.Backend {
	return s.backend
}
