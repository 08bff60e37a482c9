package model

import (
	"math/big"

	"github.com/ohmynofan/weth-wrapper/pkg/utils"
)

type Phase string

const (
	PhaseIdle       Phase = "IDLE"
	PhaseSubmitting Phase = "SUBMITTING"
	PhaseConfirming Phase = "CONFIRMING"
)

type Action string

const (
	ActionWrap   Action = "wrap"
	ActionUnwrap Action = "unwrap"
)

type ConnectionState struct {
	Account string
	Error   string
}

// ShowConnect reports whether the connect control should be offered.
func (s ConnectionState) ShowConnect() bool {
	return s.Account == ""
}

type WrapState struct {
	Amount     string
	Phase      Phase
	Pending    bool
	Action     Action
	Error      string
	LastTxHash string
	Balances   BalancePair
	Price      *float64
	Ready      bool
}

func (s WrapState) CanSubmit() bool {
	return s.Ready && !s.Pending && utils.IsNumericAmount(s.Amount)
}

func (s WrapState) PriceDisplay() string {
	if s.Price == nil {
		return ""
	}
	return utils.FormatPrice(*s.Price)
}

func (s WrapState) Clone() WrapState {
	out := s
	out.Balances.Native.Balance = cloneInt(s.Balances.Native.Balance)
	out.Balances.Wrapped.Balance = cloneInt(s.Balances.Wrapped.Balance)
	if s.Price != nil {
		p := *s.Price
		out.Price = &p
	}
	return out
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
