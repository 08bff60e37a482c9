package wrapper

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ohmynofan/weth-wrapper/internal/domain/model"
	"github.com/ohmynofan/weth-wrapper/internal/platform/logger"
	"github.com/ohmynofan/weth-wrapper/pkg/utils"
)

const MsgBalanceError = "Error updating balances"

type Token interface {
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	Deposit(ctx context.Context, value *big.Int) (*types.Transaction, error)
	Withdraw(ctx context.Context, amount *big.Int) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

type PriceSource interface {
	Price(ctx context.Context, assetID, currency string) (float64, error)
}

type Journal interface {
	Record(entry model.JournalEntry) (model.JournalEntry, error)
}

type Options struct {
	TokenFactory  func(model.Signer) (Token, error)
	Prices        PriceSource
	AssetID       string
	Currency      string
	NativeSymbol  string
	WrappedSymbol string
	Decimals      int
	Journal       Journal
	Notify        func(msg string)
	Observe       func(state model.WrapState)
}

// Wrapper converts the native coin to the wrapped token and back for the
// currently connected signer.
type Wrapper struct {
	opts Options
	log  *logger.ClassLogger

	mu      sync.Mutex
	gen     uint64
	signer  model.Signer
	token   Token
	address common.Address
	state   model.WrapState
}

func New(opts Options) *Wrapper {
	w := &Wrapper{opts: opts}
	w.log = logger.NewLogger(w)
	w.state = model.WrapState{
		Phase: model.PhaseIdle,
		Balances: model.BalancePair{
			Native:  model.TokenBalance{Symbol: opts.NativeSymbol, Decimals: opts.Decimals},
			Wrapped: model.TokenBalance{Symbol: opts.WrappedSymbol, Decimals: opts.Decimals},
		},
	}
	return w
}

func (w *Wrapper) State() model.WrapState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Clone()
}

func (w *Wrapper) CanSubmit() bool {
	return w.State().CanSubmit()
}

// SetAmount updates the amount input. It is ignored while an action is pending.
func (w *Wrapper) SetAmount(amount string) bool {
	w.mu.Lock()
	if w.state.Pending {
		w.mu.Unlock()
		return false
	}
	w.state.Amount = strings.TrimSpace(amount)
	w.mu.Unlock()
	w.notifyObserver()
	return true
}

// SetSigner replaces the signing handle, binds the token contract and loads
// balances and price. A nil signer resets the component.
func (w *Wrapper) SetSigner(ctx context.Context, signer model.Signer) error {
	w.mu.Lock()
	w.gen++
	gen := w.gen
	w.signer = nil
	w.token = nil
	w.address = common.Address{}
	w.state.Ready = false
	w.state.Error = ""
	w.state.Balances = w.state.Balances.Cleared()
	if signer == nil {
		w.state.Price = nil
	}
	w.mu.Unlock()

	if signer == nil {
		w.notifyObserver()
		return nil
	}
	// the price does not depend on the signer binding or balances
	defer w.RefreshPrice(ctx)

	address, err := signer.Address(ctx)
	if err != nil {
		return w.balanceFailure(gen, fmt.Errorf("failed to read signer address: %w", err))
	}
	if w.opts.TokenFactory == nil {
		return w.balanceFailure(gen, fmt.Errorf("no token factory configured"))
	}
	token, err := w.opts.TokenFactory(signer)
	if err != nil {
		return w.balanceFailure(gen, fmt.Errorf("failed to bind token contract: %w", err))
	}

	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		return nil
	}
	w.signer = signer
	w.token = token
	w.address = address
	w.state.Ready = true
	w.mu.Unlock()
	w.notifyObserver()

	_, err = w.refreshBalances(ctx, gen, signer, token, address)
	return err
}

// RefreshBalances reloads both balances; the price follows when either changed.
func (w *Wrapper) RefreshBalances(ctx context.Context) error {
	w.mu.Lock()
	gen, signer, token, address := w.gen, w.signer, w.token, w.address
	w.mu.Unlock()
	if signer == nil || token == nil {
		return model.ErrNotReady
	}

	changed, err := w.refreshBalances(ctx, gen, signer, token, address)
	if err != nil {
		return err
	}
	if changed {
		w.RefreshPrice(ctx)
	}
	return nil
}

func (w *Wrapper) refreshBalances(ctx context.Context, gen uint64, signer model.Signer, token Token, address common.Address) (bool, error) {
	native, err := signer.BalanceAt(ctx, address)
	if err != nil {
		return false, w.balanceFailure(gen, err)
	}
	wrapped, err := token.BalanceOf(ctx, address)
	if err != nil {
		return false, w.balanceFailure(gen, err)
	}

	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		return false, nil
	}
	next := w.state.Balances
	next.Native.Balance = native
	next.Wrapped.Balance = wrapped
	changed := !next.Equal(w.state.Balances)
	w.state.Balances = next
	w.mu.Unlock()

	w.log.JustLog(fmt.Sprintf("balances %s: %s %s, %s %s", address.Hex(),
		utils.FormatUnits(native, w.opts.Decimals), w.opts.NativeSymbol,
		utils.FormatUnits(wrapped, w.opts.Decimals), w.opts.WrappedSymbol))
	w.notifyObserver()
	return changed, nil
}

func (w *Wrapper) balanceFailure(gen uint64, err error) error {
	w.log.JustLog(fmt.Sprintf("balance refresh failed: %v", err))
	w.mu.Lock()
	if gen == w.gen {
		w.state.Error = MsgBalanceError
	}
	w.mu.Unlock()
	w.notifyObserver()
	return fmt.Errorf("%w: %w", model.ErrBalanceRefreshFailed, err)
}

// RefreshPrice fetches the reference price. Failures are logged and leave the
// previous value in place.
func (w *Wrapper) RefreshPrice(ctx context.Context) error {
	if w.opts.Prices == nil {
		return nil
	}
	price, err := w.opts.Prices.Price(ctx, w.opts.AssetID, w.opts.Currency)
	if err != nil {
		w.log.JustLog(fmt.Sprintf("Error fetching %s price: %v", w.opts.AssetID, err))
		return fmt.Errorf("%w: %w", model.ErrPriceFetchFailed, err)
	}

	w.mu.Lock()
	w.state.Price = &price
	w.mu.Unlock()
	w.notifyObserver()
	return nil
}

func (w *Wrapper) Wrap(ctx context.Context) error {
	return w.run(ctx, model.ActionWrap)
}

func (w *Wrapper) Unwrap(ctx context.Context) error {
	return w.run(ctx, model.ActionUnwrap)
}

func (w *Wrapper) run(ctx context.Context, action model.Action) error {
	w.mu.Lock()
	if w.state.Pending {
		w.mu.Unlock()
		return model.ErrActionInFlight
	}
	if w.signer == nil || w.token == nil || !utils.IsNumericAmount(w.state.Amount) {
		w.mu.Unlock()
		return model.ErrNotReady
	}
	token, address, amount := w.token, w.address, w.state.Amount
	w.state.Pending = true
	w.state.Phase = model.PhaseSubmitting
	w.state.Action = action
	w.state.Error = ""
	w.state.LastTxHash = ""
	w.mu.Unlock()
	w.notifyObserver()

	w.log.JustLog(fmt.Sprintf("%s %s requested by %s", action, amount, address.Hex()))

	value, err := utils.ParseUnits(amount, w.opts.Decimals)
	if err != nil {
		return w.fail(action, address, amount, "", err)
	}

	var tx *types.Transaction
	if action == model.ActionWrap {
		tx, err = token.Deposit(ctx, value)
	} else {
		tx, err = token.Withdraw(ctx, value)
	}
	if err != nil {
		return w.fail(action, address, amount, "", err)
	}

	txHash := tx.Hash().Hex()
	w.mu.Lock()
	w.state.Phase = model.PhaseConfirming
	w.state.LastTxHash = txHash
	w.mu.Unlock()
	w.notifyObserver()

	if _, err := token.WaitMined(ctx, tx); err != nil {
		return w.fail(action, address, amount, txHash, err)
	}

	w.log.JustLog(fmt.Sprintf("%s %s confirmed in %s", action, amount, txHash))
	w.record(model.JournalEntry{Address: address.Hex(), Action: action, Amount: amount, TxHash: txHash, Status: model.JournalConfirmed})

	w.mu.Lock()
	w.state.Amount = ""
	w.mu.Unlock()
	w.finish()
	if w.opts.Notify != nil {
		w.opts.Notify(w.successMessage(action))
	}
	_ = w.RefreshBalances(ctx)
	return nil
}

func (w *Wrapper) fail(action model.Action, address common.Address, amount, txHash string, cause error) error {
	w.log.JustLog(fmt.Sprintf("%s %s failed: %v", action, amount, cause))
	w.record(model.JournalEntry{Address: address.Hex(), Action: action, Amount: amount, TxHash: txHash, Status: model.JournalFailed, Error: cause.Error()})

	w.mu.Lock()
	w.state.Error = w.errorMessage(action)
	w.mu.Unlock()
	w.finish()
	return fmt.Errorf("%w: %w", model.ErrActionSubmissionFailed, cause)
}

func (w *Wrapper) finish() {
	w.mu.Lock()
	w.state.Pending = false
	w.state.Phase = model.PhaseIdle
	w.mu.Unlock()
	w.notifyObserver()
}

func (w *Wrapper) record(entry model.JournalEntry) {
	if w.opts.Journal == nil {
		return
	}
	if _, err := w.opts.Journal.Record(entry); err != nil {
		w.log.JustLog(fmt.Sprintf("journal write failed: %v", err))
	}
}

func (w *Wrapper) successMessage(action model.Action) string {
	if action == model.ActionWrap {
		return fmt.Sprintf("Successfully wrapped %s to %s", w.opts.NativeSymbol, w.opts.WrappedSymbol)
	}
	return fmt.Sprintf("Successfully unwrapped %s to %s", w.opts.WrappedSymbol, w.opts.NativeSymbol)
}

func (w *Wrapper) errorMessage(action model.Action) string {
	if action == model.ActionWrap {
		return fmt.Sprintf("Error wrapping %s to %s", w.opts.NativeSymbol, w.opts.WrappedSymbol)
	}
	return fmt.Sprintf("Error unwrapping %s to %s", w.opts.WrappedSymbol, w.opts.NativeSymbol)
}

func (w *Wrapper) notifyObserver() {
	if w.opts.Observe == nil {
		return
	}
	w.opts.Observe(w.State())
}
