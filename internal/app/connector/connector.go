package connector

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ohmynofan/weth-wrapper/internal/domain/model"
	"github.com/ohmynofan/weth-wrapper/internal/platform/logger"
)

const (
	MsgProviderMissing = "Please install a wallet provider!"
	MsgConnectionError = "Error connecting to the wallet"
)

// Provider is the wallet boundary the connector talks to.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	Signer(ctx context.Context) (model.Signer, error)
	OnAccountsChanged(fn func([]common.Address)) (unsubscribe func())
}

type Connector struct {
	provider  Provider
	onConnect func(model.Signer)
	log       *logger.ClassLogger

	mu          sync.Mutex
	state       model.ConnectionState
	unsubscribe func()
}

// New accepts a nil provider; connecting then reports a missing wallet.
func New(provider Provider, onConnect func(model.Signer)) *Connector {
	c := &Connector{provider: provider, onConnect: onConnect}
	c.log = logger.NewLogger(c)
	return c
}

func (c *Connector) State() model.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect requests account access and hands the signer to the parent.
func (c *Connector) Connect(ctx context.Context) error {
	if c.provider == nil {
		c.setError(MsgProviderMissing)
		c.log.JustLog("no wallet provider available")
		return model.ErrProviderMissing
	}

	signer, address, err := c.requestSigner(ctx)
	if err != nil {
		c.setError(MsgConnectionError)
		c.log.JustLog(fmt.Sprintf("connection failed: %v", err))
		return fmt.Errorf("%w: %w", model.ErrConnectionRejected, err)
	}

	c.mu.Lock()
	c.state = model.ConnectionState{Account: address.Hex()}
	c.mu.Unlock()

	c.log.Log(fmt.Sprintf("Wallet connected %s", address.Hex()))
	if c.onConnect != nil {
		c.onConnect(signer)
	}
	return nil
}

func (c *Connector) requestSigner(ctx context.Context) (model.Signer, common.Address, error) {
	if _, err := c.provider.RequestAccounts(ctx); err != nil {
		return nil, common.Address{}, err
	}
	signer, err := c.provider.Signer(ctx)
	if err != nil {
		return nil, common.Address{}, err
	}
	address, err := signer.Address(ctx)
	if err != nil {
		return nil, common.Address{}, err
	}
	return signer, address, nil
}

func (c *Connector) setError(msg string) {
	c.mu.Lock()
	c.state.Error = msg
	c.mu.Unlock()
}

// Mount subscribes to account changes; each change reconnects with ctx.
func (c *Connector) Mount(ctx context.Context) {
	if c.provider == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsubscribe != nil {
		return
	}
	c.unsubscribe = c.provider.OnAccountsChanged(func(accounts []common.Address) {
		c.log.JustLog(fmt.Sprintf("accounts changed: %v", accounts))
		_ = c.Connect(ctx)
	})
}

func (c *Connector) Unmount() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}
