package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ohmynofan/weth-wrapper/internal/app/connector"
	"github.com/ohmynofan/weth-wrapper/internal/app/wrapper"
	"github.com/ohmynofan/weth-wrapper/internal/config"
	"github.com/ohmynofan/weth-wrapper/internal/domain/model"
	"github.com/ohmynofan/weth-wrapper/internal/platform/logger"
)

const (
	cmdConnect = "Connect wallet"
	cmdRefresh = "Refresh balances"
	cmdSwitch  = "Switch account"
	cmdHistory = "History"
	cmdQuit    = "Quit"

	historyLimit = 10
)

var errPrompt = errors.New("prompt aborted")

type Prompter interface {
	Select(title string, options []string) (string, error)
	Input(label string) (string, error)
}

type Presenter interface {
	Connector(state model.ConnectionState)
	Wrap(state model.WrapState)
	History(entries []model.JournalEntry)
	Error(msg string)
}

type AccountSwitcher interface {
	Accounts() []string
	ActiveIndex() int
	SwitchAccount(idx int) error
}

type HistorySource interface {
	Recent(address string, limit int) ([]model.JournalEntry, error)
}

// Worker drives one interactive session: render, ask for a command, run it.
type Worker struct {
	network   config.Network
	connector *connector.Connector
	wrapper   *wrapper.Wrapper
	accounts  AccountSwitcher
	history   HistorySource
	prompt    Prompter
	view      Presenter
	log       *logger.ClassLogger
}

type Deps struct {
	Network   config.Network
	Connector *connector.Connector
	Wrapper   *wrapper.Wrapper
	Accounts  AccountSwitcher
	History   HistorySource
	Prompt    Prompter
	View      Presenter
}

func New(d Deps) *Worker {
	w := &Worker{
		network:   d.Network,
		connector: d.Connector,
		wrapper:   d.Wrapper,
		accounts:  d.Accounts,
		history:   d.History,
		prompt:    d.Prompt,
		view:      d.View,
	}
	w.log = logger.NewLogger(w)
	return w
}

func handleError(log *logger.ClassLogger, err error) (shouldStop bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, errPrompt) {
		log.JustLog(fmt.Sprintf("FATAL: %v. Session will stop.", err))
		return true
	}
	log.JustLog(fmt.Sprintf("%v, waiting for the next command", err))
	return false
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		w.render()

		choice, err := w.prompt.Select("What would you like to do?", w.options())
		if err != nil {
			err = fmt.Errorf("%w: %w", errPrompt, err)
			if handleError(w.log, err) {
				return err
			}
			continue
		}
		if choice == cmdQuit {
			return nil
		}

		if err := w.dispatch(ctx, choice); err != nil {
			if handleError(w.log, err) {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
	}
}

func (w *Worker) render() {
	conn := w.connector.State()
	w.view.Connector(conn)
	if !conn.ShowConnect() {
		w.view.Wrap(w.wrapper.State())
	}
}

func (w *Worker) wrapLabel() string {
	return fmt.Sprintf("Wrap %s to %s", w.network.Symbol, w.network.WrappedSymbol)
}

func (w *Worker) unwrapLabel() string {
	return fmt.Sprintf("Unwrap %s to %s", w.network.WrappedSymbol, w.network.Symbol)
}

func (w *Worker) options() []string {
	if w.connector.State().ShowConnect() {
		return []string{cmdConnect, cmdQuit}
	}
	opts := []string{w.wrapLabel(), w.unwrapLabel(), cmdRefresh}
	if w.accounts != nil && len(w.accounts.Accounts()) > 1 {
		opts = append(opts, cmdSwitch)
	}
	if w.history != nil {
		opts = append(opts, cmdHistory)
	}
	return append(opts, cmdQuit)
}

func (w *Worker) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case cmdConnect:
		// the outcome is rendered from connector state on the next pass
		_ = w.connector.Connect(ctx)
		return nil
	case w.wrapLabel():
		return w.act(ctx, model.ActionWrap)
	case w.unwrapLabel():
		return w.act(ctx, model.ActionUnwrap)
	case cmdRefresh:
		if err := w.wrapper.RefreshBalances(ctx); err != nil {
			return err
		}
		return nil
	case cmdSwitch:
		return w.switchAccount()
	case cmdHistory:
		return w.showHistory()
	default:
		return fmt.Errorf("unknown command %q", choice)
	}
}

func (w *Worker) act(ctx context.Context, action model.Action) error {
	amount, err := w.prompt.Input(fmt.Sprintf("Amount to %s", action))
	if err != nil {
		return fmt.Errorf("%w: %w", errPrompt, err)
	}
	w.wrapper.SetAmount(amount)
	if !w.wrapper.CanSubmit() {
		w.view.Error("Enter a numeric amount")
		return nil
	}

	if action == model.ActionWrap {
		err = w.wrapper.Wrap(ctx)
	} else {
		err = w.wrapper.Unwrap(ctx)
	}
	return err
}

func (w *Worker) switchAccount() error {
	if w.accounts == nil {
		return nil
	}
	addresses := w.accounts.Accounts()
	labels := make([]string, len(addresses))
	for i, addr := range addresses {
		marker := ""
		if i == w.accounts.ActiveIndex() {
			marker = " (active)"
		}
		labels[i] = fmt.Sprintf("%d. %s%s", i+1, addr, marker)
	}

	choice, err := w.prompt.Select("Select account", labels)
	if err != nil {
		return fmt.Errorf("%w: %w", errPrompt, err)
	}
	for i, label := range labels {
		if label == choice {
			return w.accounts.SwitchAccount(i)
		}
	}
	return fmt.Errorf("unknown account %q", strings.TrimSpace(choice))
}

func (w *Worker) showHistory() error {
	if w.history == nil {
		return nil
	}
	entries, err := w.history.Recent(w.connector.State().Account, historyLimit)
	if err != nil {
		w.view.Error("Could not read the action history")
		return err
	}
	w.view.History(entries)
	return nil
}
