package model

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func TestBalanceDisplay(t *testing.T) {
	tb := TokenBalance{Symbol: "ETH", Decimals: 18, Balance: ether(1)}
	require.Equal(t, "1.00000", tb.Display())
	require.Equal(t, "0.00000", TokenBalance{Decimals: 18}.Display())
}

func TestPriceDisplay(t *testing.T) {
	price := 1234.567
	require.Equal(t, "$1234.57", WrapState{Price: &price}.PriceDisplay())
	require.Equal(t, "", WrapState{}.PriceDisplay())
}

func TestCanSubmit(t *testing.T) {
	s := WrapState{Ready: true, Amount: "0.5"}
	require.True(t, s.CanSubmit())

	s.Amount = ""
	require.False(t, s.CanSubmit())

	s.Amount = "0.5"
	s.Pending = true
	require.False(t, s.CanSubmit())

	require.False(t, WrapState{Amount: "1"}.CanSubmit())
}

func TestBalancePairEqual(t *testing.T) {
	a := BalancePair{Native: TokenBalance{Balance: ether(1)}, Wrapped: TokenBalance{Balance: ether(2)}}
	b := BalancePair{Native: TokenBalance{Balance: ether(1)}, Wrapped: TokenBalance{Balance: ether(2)}}
	require.True(t, a.Equal(b))

	b.Wrapped.Balance = ether(3)
	require.False(t, a.Equal(b))
	require.False(t, a.Equal(a.Cleared()))
	require.True(t, a.Cleared().Equal(BalancePair{}))
}

func TestCloneIsDeep(t *testing.T) {
	price := 10.0
	s := WrapState{Price: &price, Balances: BalancePair{Native: TokenBalance{Balance: big.NewInt(5)}}}
	c := s.Clone()
	c.Balances.Native.Balance.SetInt64(6)
	*c.Price = 11
	require.Equal(t, int64(5), s.Balances.Native.Balance.Int64())
	require.Equal(t, 10.0, *s.Price)
}

func TestConnectionStateShowConnect(t *testing.T) {
	require.True(t, ConnectionState{}.ShowConnect())
	require.False(t, ConnectionState{Account: "0xabc"}.ShowConnect())
}
