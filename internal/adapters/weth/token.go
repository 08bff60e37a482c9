package weth

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ohmynofan/weth-wrapper/internal/domain/model"
	"github.com/ohmynofan/weth-wrapper/internal/platform/logger"
)

var (
	parsedOnce sync.Once
	parsedABI  abi.ABI
	parsedErr  error
)

var ErrReverted = errors.New("transaction reverted")

func ParsedABI() (abi.ABI, error) {
	parsedOnce.Do(func() {
		parsedABI, parsedErr = abi.JSON(strings.NewReader(TokenABI))
	})
	return parsedABI, parsedErr
}

// Token is a WETH contract bound to one signer.
type Token struct {
	address  common.Address
	signer   model.Signer
	backend  model.Backend
	contract *bind.BoundContract
	log      *logger.ClassLogger
}

func NewToken(signer model.Signer, address common.Address) (*Token, error) {
	scope := "[New Token] Error :"
	if signer == nil {
		return nil, fmt.Errorf("%s signer is required", scope)
	}
	backend := signer.Backend()
	if backend == nil {
		return nil, fmt.Errorf("%s signer has no backend", scope)
	}
	parsed, err := ParsedABI()
	if err != nil {
		return nil, fmt.Errorf("%s failed to parse ABI: %w", scope, err)
	}

	t := &Token{
		address:  address,
		signer:   signer,
		backend:  backend,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}
	t.log = logger.NewLogger(t)
	return t, nil
}

func (t *Token) Address() common.Address { return t.address }

func (t *Token) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	scope := "[BalanceOf] Error :"
	var out []interface{}
	if err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, methodBalanceOf, owner); err != nil {
		return nil, fmt.Errorf("%s %w", scope, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%s unexpected result length %d", scope, len(out))
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s unexpected result type %T", scope, out[0])
	}
	return balance, nil
}

func (t *Token) Deposit(ctx context.Context, value *big.Int) (*types.Transaction, error) {
	scope := "[Deposit] Error :"
	opts, err := t.signer.Transactor(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s %w", scope, err)
	}
	opts.Value = value
	tx, err := t.contract.Transact(opts, methodDeposit)
	if err != nil {
		return nil, fmt.Errorf("%s %w", scope, err)
	}
	t.log.JustLog(fmt.Sprintf("deposit submitted %s value=%s", tx.Hash().Hex(), value))
	return tx, nil
}

func (t *Token) Withdraw(ctx context.Context, amount *big.Int) (*types.Transaction, error) {
	scope := "[Withdraw] Error :"
	opts, err := t.signer.Transactor(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s %w", scope, err)
	}
	tx, err := t.contract.Transact(opts, methodWithdraw, amount)
	if err != nil {
		return nil, fmt.Errorf("%s %w", scope, err)
	}
	t.log.JustLog(fmt.Sprintf("withdraw submitted %s amount=%s", tx.Hash().Hex(), amount))
	return tx, nil
}

// WaitMined blocks until the transaction is included or ctx is done.
func (t *Token) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	scope := "[WaitMined] Error :"
	receipt, err := bind.WaitMined(ctx, t.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("%s %w", scope, err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, fmt.Errorf("%s %s: %w", scope, tx.Hash().Hex(), ErrReverted)
	}
	return receipt, nil
}
