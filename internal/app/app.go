package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ohmynofan/weth-wrapper/internal/adapters/chain"
	"github.com/ohmynofan/weth-wrapper/internal/adapters/price"
	"github.com/ohmynofan/weth-wrapper/internal/adapters/weth"
	"github.com/ohmynofan/weth-wrapper/internal/app/connector"
	"github.com/ohmynofan/weth-wrapper/internal/app/worker"
	"github.com/ohmynofan/weth-wrapper/internal/app/wrapper"
	"github.com/ohmynofan/weth-wrapper/internal/config"
	"github.com/ohmynofan/weth-wrapper/internal/domain/model"
	"github.com/ohmynofan/weth-wrapper/internal/platform/logger"
	"github.com/ohmynofan/weth-wrapper/internal/platform/ui"
	"github.com/ohmynofan/weth-wrapper/internal/storage/txlog"
	"github.com/ohmynofan/weth-wrapper/pkg/utils"
)

var ErrJournalDisabled = errors.New("action journal is disabled (JOURNAL_ENABLED=false)")

type App struct {
	cfg config.Config
	log *logger.ClassLogger
}

func New(cfg config.Config) *App {
	app := &App{cfg: cfg}
	app.log = logger.NewLogger(app)
	return app
}

func (app *App) Run(ctx context.Context) error {
	accounts, err := app.cfg.LoadAccounts()
	if err != nil {
		return err
	}

	var provider connector.Provider
	var switcher worker.AccountSwitcher
	if len(accounts) > 0 {
		ec, err := chain.New(app.cfg.Network, accounts)
		if err != nil {
			return err
		}
		defer ec.Close()
		provider = ec
		switcher = ec
	} else {
		app.log.JustLog(fmt.Sprintf("no accounts in %s, running without a wallet provider", app.cfg.AccountsPath))
	}

	var journal wrapper.Journal
	var history worker.HistorySource
	if app.cfg.JournalEnabled {
		store, err := txlog.NewStore(app.cfg.JournalPath, app.cfg.NetworkKey)
		if err != nil {
			return err
		}
		defer store.Close()
		journal = store
		history = store
	}

	network := app.cfg.Network
	term := ui.Terminal{TxURL: network.TxURL}
	tokenAddress := common.HexToAddress(network.WrappedToken)

	wrap := wrapper.New(wrapper.Options{
		TokenFactory: func(signer model.Signer) (wrapper.Token, error) {
			token, err := weth.NewToken(signer, tokenAddress)
			if err != nil {
				return nil, err
			}
			return token, nil
		},
		Prices:        price.NewCoinGecko(app.cfg.PriceAPIURL, app.cfg.PriceAPIKey, app.cfg.PriceTimeout),
		AssetID:       app.cfg.PriceAssetID,
		Currency:      app.cfg.PriceCurrency,
		NativeSymbol:  network.Symbol,
		WrappedSymbol: network.WrappedSymbol,
		Decimals:      network.Decimals,
		Journal:       journal,
		Notify:        term.Alert,
		Observe:       term.Phase,
	})

	conn := connector.New(provider, func(signer model.Signer) {
		// failures are already reflected in the wrapper state
		_ = wrap.SetSigner(ctx, signer)
	})
	conn.Mount(ctx)
	defer conn.Unmount()

	app.log.LogObject("session network", network)

	return worker.New(worker.Deps{
		Network:   network,
		Connector: conn,
		Wrapper:   wrap,
		Accounts:  switcher,
		History:   history,
		Prompt:    term,
		View:      term,
	}).Run(ctx)
}

// History prints the journal for the account at position accountNumber (1-based).
func (app *App) History(accountNumber, limit int) error {
	if !app.cfg.JournalEnabled {
		return ErrJournalDisabled
	}
	accounts, err := app.cfg.LoadAccounts()
	if err != nil {
		return err
	}
	if accountNumber < 1 || accountNumber > len(accounts) {
		return fmt.Errorf("account %d not found in %s", accountNumber, app.cfg.AccountsPath)
	}
	address, _, err := utils.KeyFromAccount(accounts[accountNumber-1].PrivateKey)
	if err != nil {
		return err
	}

	store, err := txlog.NewStore(app.cfg.JournalPath, app.cfg.NetworkKey)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(address.Hex(), limit)
	if err != nil {
		return err
	}
	ui.ShowInfo(fmt.Sprintf("History for %s on %s", utils.ShortenAddress(address.Hex()), app.cfg.Network.Name))
	ui.RenderHistory(entries, app.cfg.Network.TxURL)
	return nil
}
