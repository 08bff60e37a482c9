package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ohmynofan/weth-wrapper/internal/config"
	"github.com/ohmynofan/weth-wrapper/internal/domain/model"
	"github.com/ohmynofan/weth-wrapper/internal/platform/logger"
	"github.com/ohmynofan/weth-wrapper/pkg/utils"
)

// EthersClient is the wallet provider: a keyring of configured accounts in
// front of a JSON-RPC node. One account is active at a time.
type EthersClient struct {
	client     *ethclient.Client
	backend    model.Backend
	network    config.Network
	accounts   []config.Account
	log        *logger.ClassLogger
	ownsClient bool

	mu        sync.Mutex
	active    int
	listeners map[int]func([]common.Address)
	nextID    int
}

func New(network config.Network, accounts []config.Account) (*EthersClient, error) {
	scope := "[New EtherClient] Error :"
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%s invalid account input: no accounts configured", scope)
	}
	ec := &EthersClient{network: network, accounts: accounts, ownsClient: true}
	ec.log = logger.NewLogger(ec)
	ec.log.JustLog(fmt.Sprintf("Initializing Ethers Client on %s...", network.Name))

	client, err := ethclient.Dial(network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("%s failed to connect RPC (%s): %w", scope, network.Name, err)
	}
	ec.client = client
	ec.backend = client
	return ec, nil
}

// NewWithBackend serves the keyring over an existing backend the caller owns.
func NewWithBackend(network config.Network, accounts []config.Account, backend model.Backend) *EthersClient {
	ec := &EthersClient{network: network, accounts: accounts, backend: backend}
	ec.log = logger.NewLogger(ec)
	return ec
}

func (e *EthersClient) Close() {
	if e.client != nil && e.ownsClient {
		e.client.Close()
	}
}

// RequestAccounts derives the active account and returns its address.
func (e *EthersClient) RequestAccounts(_ context.Context) ([]common.Address, error) {
	e.mu.Lock()
	idx := e.active
	e.mu.Unlock()

	addr, _, err := e.derive(idx)
	if err != nil {
		return nil, err
	}
	e.log.JustLog(fmt.Sprintf("Account %d unlocked %s", idx+1, addr.Hex()))
	return []common.Address{addr}, nil
}

func (e *EthersClient) Signer(_ context.Context) (model.Signer, error) {
	e.mu.Lock()
	idx := e.active
	e.mu.Unlock()

	addr, key, err := e.derive(idx)
	if err != nil {
		return nil, err
	}
	return &Signer{
		address: addr,
		key:     key,
		chainID: big.NewInt(int64(e.network.ChainID)),
		backend: e.backend,
	}, nil
}

func (e *EthersClient) derive(idx int) (common.Address, *ecdsa.PrivateKey, error) {
	scope := "[ConnectWallet] Error :"
	if idx < 0 || idx >= len(e.accounts) {
		return common.Address{}, nil, fmt.Errorf("%s invalid account input: index %d out of range", scope, idx)
	}
	addr, key, err := utils.KeyFromAccount(e.accounts[idx].PrivateKey)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("%s %w", scope, err)
	}
	return addr, key, nil
}

// Accounts lists the addresses of every configured account, in order.
// Accounts that cannot be parsed are listed as "invalid".
func (e *EthersClient) Accounts() []string {
	out := make([]string, 0, len(e.accounts))
	for i := range e.accounts {
		addr, _, err := e.derive(i)
		if err != nil {
			out = append(out, "invalid")
			continue
		}
		out = append(out, addr.Hex())
	}
	return out
}

func (e *EthersClient) ActiveIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// OnAccountsChanged registers fn for account switches until the returned
// function is called.
func (e *EthersClient) OnAccountsChanged(fn func([]common.Address)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[int]func([]common.Address))
	}
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.listeners, id)
			e.mu.Unlock()
		})
	}
}

// SwitchAccount activates another account and notifies listeners.
func (e *EthersClient) SwitchAccount(idx int) error {
	addr, _, err := e.derive(idx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.active == idx {
		e.mu.Unlock()
		return nil
	}
	e.active = idx
	listeners := make([]func([]common.Address), 0, len(e.listeners))
	for _, fn := range e.listeners {
		listeners = append(listeners, fn)
	}
	e.mu.Unlock()

	e.log.JustLog(fmt.Sprintf("Switched to account %d %s", idx+1, addr.Hex()))
	accounts := []common.Address{addr}
	for _, fn := range listeners {
		fn(accounts)
	}
	return nil
}
