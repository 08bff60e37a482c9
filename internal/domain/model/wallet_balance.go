package model

import (
	"math/big"

	"github.com/ohmynofan/weth-wrapper/pkg/utils"
)

const (
	BalanceDisplayPlaces = 5
)

type TokenBalance struct {
	Symbol   string
	Decimals int
	Balance  *big.Int
}

func (tb TokenBalance) Display() string {
	return utils.FormatFixed(tb.Balance, tb.Decimals, BalanceDisplayPlaces)
}

func (tb TokenBalance) Known() bool {
	return tb.Balance != nil
}

func (tb TokenBalance) Equal(other TokenBalance) bool {
	if tb.Balance == nil || other.Balance == nil {
		return tb.Balance == nil && other.Balance == nil
	}
	return tb.Balance.Cmp(other.Balance) == 0
}

// BalancePair holds the native coin and wrapped token balance of one account.
type BalancePair struct {
	Native  TokenBalance
	Wrapped TokenBalance
}

func (p BalancePair) Equal(other BalancePair) bool {
	return p.Native.Equal(other.Native) && p.Wrapped.Equal(other.Wrapped)
}

func (p BalancePair) Cleared() BalancePair {
	p.Native.Balance = nil
	p.Wrapped.Balance = nil
	return p
}
