package wrapper

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/ohmynofan/weth-wrapper/internal/domain/model"
)

const account = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

// chainStub plays both the signer and the token with deterministic balances.
type chainStub struct {
	mu         sync.Mutex
	native     *big.Int
	wrapped    *big.Int
	addressErr error
	balanceErr error
	submitErr  error
	waitErr    error
	waitGate   chan struct{}
	deposits   []*big.Int
	withdraws  []*big.Int
	nonce      uint64
}

func newChainStub(native, wrapped int64) *chainStub {
	return &chainStub{native: ether(native), wrapped: ether(wrapped)}
}

func (c *chainStub) Address(context.Context) (common.Address, error) {
	if c.addressErr != nil {
		return common.Address{}, c.addressErr
	}
	return common.HexToAddress(account), nil
}

func (c *chainStub) BalanceAt(context.Context, common.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.balanceErr != nil {
		return nil, c.balanceErr
	}
	return new(big.Int).Set(c.native), nil
}

func (c *chainStub) Transactor(context.Context) (*bind.TransactOpts, error) { return nil, nil }
func (c *chainStub) Backend() model.Backend { return nil }

func (c *chainStub) BalanceOf(context.Context, common.Address) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.balanceErr != nil {
		return nil, c.balanceErr
	}
	return new(big.Int).Set(c.wrapped), nil
}

func (c *chainStub) tx() *types.Transaction {
	c.nonce++
	return types.NewTx(&types.LegacyTx{Nonce: c.nonce, Gas: 21000, GasPrice: big.NewInt(1)})
}

func (c *chainStub) Deposit(_ context.Context, value *big.Int) (*types.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitErr != nil {
		return nil, c.submitErr
	}
	c.deposits = append(c.deposits, value)
	return c.tx(), nil
}

func (c *chainStub) Withdraw(_ context.Context, amount *big.Int) (*types.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitErr != nil {
		return nil, c.submitErr
	}
	c.withdraws = append(c.withdraws, amount)
	return c.tx(), nil
}

func (c *chainStub) WaitMined(ctx context.Context, _ *types.Transaction) (*types.Receipt, error) {
	if c.waitGate != nil {
		select {
		case <-c.waitGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waitErr != nil {
		return nil, c.waitErr
	}
	// settle the last submission on "chain"
	if n := len(c.deposits); n > 0 {
		c.native.Sub(c.native, c.deposits[n-1])
		c.wrapped.Add(c.wrapped, c.deposits[n-1])
		c.deposits = c.deposits[:n-1]
	}
	if n := len(c.withdraws); n > 0 {
		c.wrapped.Sub(c.wrapped, c.withdraws[n-1])
		c.native.Add(c.native, c.withdraws[n-1])
		c.withdraws = c.withdraws[:n-1]
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

type priceStub struct {
	price float64
	err   error
	calls int
}

func (p *priceStub) Price(_ context.Context, assetID, currency string) (float64, error) {
	p.calls++
	if p.err != nil {
		return 0, p.err
	}
	return p.price, nil
}

type journalStub struct{ entries []model.JournalEntry }

func (j *journalStub) Record(e model.JournalEntry) (model.JournalEntry, error) {
	j.entries = append(j.entries, e)
	return e, nil
}

type fixture struct {
	w       *Wrapper
	chain   *chainStub
	prices  *priceStub
	journal *journalStub
	alerts  []string
	phases  []model.Phase
}

func newFixture(t *testing.T, chain *chainStub) *fixture {
	t.Helper()
	f := &fixture{chain: chain, prices: &priceStub{price: 1234.567}, journal: &journalStub{}}
	f.w = New(Options{
		TokenFactory:  func(model.Signer) (Token, error) { return chain, nil },
		Prices:        f.prices,
		AssetID:       "ethereum",
		Currency:      "usd",
		NativeSymbol:  "ETH",
		WrappedSymbol: "WETH",
		Decimals:      18,
		Journal:       f.journal,
		Notify:        func(msg string) { f.alerts = append(f.alerts, msg) },
		Observe: func(s model.WrapState) {
			if n := len(f.phases); n == 0 || f.phases[n-1] != s.Phase {
				f.phases = append(f.phases, s.Phase)
			}
		},
	})
	return f
}

func TestNothingActionableWithoutSigner(t *testing.T) {
	f := newFixture(t, newChainStub(2, 0))
	f.w.SetAmount("1")
	require.False(t, f.w.CanSubmit())
	require.ErrorIs(t, f.w.Wrap(context.Background()), model.ErrNotReady)
	require.ErrorIs(t, f.w.RefreshBalances(context.Background()), model.ErrNotReady)
}

func TestSetSignerLoadsBalancesAndPrice(t *testing.T) {
	f := newFixture(t, newChainStub(1, 0))
	require.NoError(t, f.w.SetSigner(context.Background(), f.chain))

	s := f.w.State()
	require.True(t, s.Ready)
	require.Equal(t, "1.00000", s.Balances.Native.Display())
	require.Equal(t, "0.00000", s.Balances.Wrapped.Display())
	require.Equal(t, "$1234.57", s.PriceDisplay())
	require.Equal(t, 1, f.prices.calls)
}

func TestPriceFailureIsSilent(t *testing.T) {
	f := newFixture(t, newChainStub(1, 0))
	f.prices.err = errors.New("rate limited")

	require.NoError(t, f.w.SetSigner(context.Background(), f.chain))
	s := f.w.State()
	require.Nil(t, s.Price)
	require.Empty(t, s.Error)
	require.Equal(t, "1.00000", s.Balances.Native.Display())
}

func TestPriceFetchedEvenWhenBalancesFail(t *testing.T) {
	f := newFixture(t, newChainStub(1, 0))
	f.chain.balanceErr = errors.New("node down")

	err := f.w.SetSigner(context.Background(), f.chain)
	require.ErrorIs(t, err, model.ErrBalanceRefreshFailed)
	s := f.w.State()
	require.Equal(t, MsgBalanceError, s.Error)
	require.NotNil(t, s.Price)
	require.Equal(t, 1, f.prices.calls)
}

func TestPriceFetchedWhenSignerAddressFails(t *testing.T) {
	f := newFixture(t, newChainStub(1, 0))
	f.chain.addressErr = errors.New("locked")

	require.ErrorIs(t, f.w.SetSigner(context.Background(), f.chain), model.ErrBalanceRefreshFailed)
	s := f.w.State()
	require.False(t, s.Ready)
	require.Equal(t, "$1234.57", s.PriceDisplay())
	require.Equal(t, 1, f.prices.calls)
}

func TestPriceFetchedWhenTokenBindFails(t *testing.T) {
	f := newFixture(t, newChainStub(1, 0))
	f.w.opts.TokenFactory = func(model.Signer) (Token, error) { return nil, errors.New("bad abi") }

	require.ErrorIs(t, f.w.SetSigner(context.Background(), f.chain), model.ErrBalanceRefreshFailed)
	require.Equal(t, "$1234.57", f.w.State().PriceDisplay())
	require.Equal(t, 1, f.prices.calls)
}

func TestControlsDisabled(t *testing.T) {
	f := newFixture(t, newChainStub(2, 0))
	require.NoError(t, f.w.SetSigner(context.Background(), f.chain))

	require.False(t, f.w.CanSubmit())
	f.w.SetAmount("abc")
	require.False(t, f.w.CanSubmit())
	f.w.SetAmount("0.5")
	require.True(t, f.w.CanSubmit())
}

func TestWrapSuccess(t *testing.T) {
	f := newFixture(t, newChainStub(2, 0))
	ctx := context.Background()
	require.NoError(t, f.w.SetSigner(ctx, f.chain))
	f.w.SetAmount("0.5")

	require.NoError(t, f.w.Wrap(ctx))

	s := f.w.State()
	require.Equal(t, "1.50000", s.Balances.Native.Display())
	require.Equal(t, "0.50000", s.Balances.Wrapped.Display())
	require.Empty(t, s.Amount)
	require.Empty(t, s.Error)
	require.False(t, s.Pending)
	require.Equal(t, model.PhaseIdle, s.Phase)
	require.NotEmpty(t, s.LastTxHash)
	require.Equal(t, []string{"Successfully wrapped ETH to WETH"}, f.alerts)
	require.Equal(t, []model.Phase{model.PhaseIdle, model.PhaseSubmitting, model.PhaseConfirming, model.PhaseIdle}, f.phases)
	require.Equal(t, 2, f.prices.calls)

	require.Len(t, f.journal.entries, 1)
	require.Equal(t, model.JournalConfirmed, f.journal.entries[0].Status)
	require.Equal(t, model.ActionWrap, f.journal.entries[0].Action)
	require.Equal(t, "0.5", f.journal.entries[0].Amount)
}

func TestSuccessAlertPrecedesBalanceRefresh(t *testing.T) {
	f := newFixture(t, newChainStub(2, 0))
	ctx := context.Background()
	require.NoError(t, f.w.SetSigner(ctx, f.chain))

	var atAlert model.WrapState
	f.w.opts.Notify = func(string) { atAlert = f.w.State() }
	f.w.SetAmount("0.5")
	require.NoError(t, f.w.Wrap(ctx))

	require.Equal(t, "2.00000", atAlert.Balances.Native.Display())
	require.False(t, atAlert.Pending)
	require.Equal(t, "1.50000", f.w.State().Balances.Native.Display())
}

func TestUnwrapSuccess(t *testing.T) {
	f := newFixture(t, newChainStub(0, 3))
	ctx := context.Background()
	require.NoError(t, f.w.SetSigner(ctx, f.chain))
	f.w.SetAmount("1")

	require.NoError(t, f.w.Unwrap(ctx))

	s := f.w.State()
	require.Equal(t, "1.00000", s.Balances.Native.Display())
	require.Equal(t, "2.00000", s.Balances.Wrapped.Display())
	require.Equal(t, []string{"Successfully unwrapped WETH to ETH"}, f.alerts)
}

func TestSubmissionFailureKeepsAmountAndBalances(t *testing.T) {
	f := newFixture(t, newChainStub(2, 0))
	ctx := context.Background()
	require.NoError(t, f.w.SetSigner(ctx, f.chain))
	f.chain.submitErr = errors.New("user denied transaction signature")
	f.w.SetAmount("0.5")

	err := f.w.Wrap(ctx)
	require.ErrorIs(t, err, model.ErrActionSubmissionFailed)

	s := f.w.State()
	require.Equal(t, "Error wrapping ETH to WETH", s.Error)
	require.Equal(t, "0.5", s.Amount)
	require.Equal(t, "2.00000", s.Balances.Native.Display())
	require.Equal(t, "0.00000", s.Balances.Wrapped.Display())
	require.False(t, s.Pending)
	require.Empty(t, f.alerts)

	require.Len(t, f.journal.entries, 1)
	require.Equal(t, model.JournalFailed, f.journal.entries[0].Status)
	require.Contains(t, f.journal.entries[0].Error, "user denied")
}

func TestConfirmationFailure(t *testing.T) {
	f := newFixture(t, newChainStub(0, 1))
	ctx := context.Background()
	require.NoError(t, f.w.SetSigner(ctx, f.chain))
	f.chain.waitErr = errors.New("transaction reverted")
	f.w.SetAmount("1")

	require.ErrorIs(t, f.w.Unwrap(ctx), model.ErrActionSubmissionFailed)
	s := f.w.State()
	require.Equal(t, "Error unwrapping WETH to ETH", s.Error)
	require.Equal(t, "1", s.Amount)
	require.NotEmpty(t, s.LastTxHash)
	require.Equal(t, "1.00000", s.Balances.Wrapped.Display())
}

func TestInvalidAmountFailsAtSubmission(t *testing.T) {
	f := newFixture(t, newChainStub(1, 0))
	ctx := context.Background()
	require.NoError(t, f.w.SetSigner(ctx, f.chain))
	f.w.SetAmount("-1")

	require.ErrorIs(t, f.w.Wrap(ctx), model.ErrActionSubmissionFailed)
	require.Equal(t, "Error wrapping ETH to WETH", f.w.State().Error)
	require.Empty(t, f.chain.deposits)
}

func TestOneActionAtATime(t *testing.T) {
	chain := newChainStub(2, 0)
	chain.waitGate = make(chan struct{})
	f := newFixture(t, chain)
	ctx := context.Background()
	require.NoError(t, f.w.SetSigner(ctx, chain))
	f.w.SetAmount("0.5")

	done := make(chan error, 1)
	go func() { done <- f.w.Wrap(ctx) }()

	require.Eventually(t, func() bool { return f.w.State().Phase == model.PhaseConfirming }, testTimeout, testTick)
	require.False(t, f.w.CanSubmit())
	require.False(t, f.w.SetAmount("1"))
	require.ErrorIs(t, f.w.Unwrap(ctx), model.ErrActionInFlight)

	close(chain.waitGate)
	require.NoError(t, <-done)
	require.False(t, f.w.State().Pending)
}

func TestSetNilSignerResets(t *testing.T) {
	f := newFixture(t, newChainStub(1, 1))
	ctx := context.Background()
	require.NoError(t, f.w.SetSigner(ctx, f.chain))
	require.NoError(t, f.w.SetSigner(ctx, nil))

	s := f.w.State()
	require.False(t, s.Ready)
	require.Nil(t, s.Price)
	require.False(t, s.Balances.Native.Known())
	require.Equal(t, "0.00000", s.Balances.Native.Display())
}

func TestTokenFactoryFailure(t *testing.T) {
	f := newFixture(t, newChainStub(1, 0))
	f.w.opts.TokenFactory = func(model.Signer) (Token, error) { return nil, errors.New("bad abi") }

	require.ErrorIs(t, f.w.SetSigner(context.Background(), f.chain), model.ErrBalanceRefreshFailed)
	require.False(t, f.w.State().Ready)
}
