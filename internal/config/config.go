package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

type Config struct {
	NetworkKey     string
	Network        Network
	AccountsPath   string
	PriceAPIURL    string
	PriceAPIKey    string
	PriceAssetID   string
	PriceCurrency  string
	PriceTimeout   time.Duration
	JournalEnabled bool
	JournalPath    string
	LogPath        string
}

type Account struct {
	PrivateKey string `json:"pk"`
}

func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using default values")
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() Config {
	networkKey := strings.ToLower(strings.TrimSpace(os.Getenv("NETWORK")))
	if networkKey == "" {
		networkKey = EthereumMainnet.Key
	}
	network, _ := NetworkByKey(networkKey)

	if rpc := strings.TrimSpace(os.Getenv("RPC_URL")); rpc != "" {
		network.RPCURL = rpc
	}
	if token := strings.TrimSpace(os.Getenv("WETH_ADDRESS")); token != "" {
		network.WrappedToken = token
	}

	assetID := strings.TrimSpace(os.Getenv("PRICE_ASSET_ID"))
	if assetID == "" {
		assetID = network.PriceAssetID
	}

	return Config{
		NetworkKey:     networkKey,
		Network:        network,
		AccountsPath:   stringWithDefault(os.Getenv("ACCOUNTS_PATH"), "configs/accounts.json"),
		PriceAPIURL:    stringWithDefault(os.Getenv("PRICE_API_URL"), "https://api.coingecko.com/api/v3"),
		PriceAPIKey:    strings.TrimSpace(os.Getenv("PRICE_API_KEY")),
		PriceAssetID:   assetID,
		PriceCurrency:  strings.ToLower(stringWithDefault(os.Getenv("PRICE_CURRENCY"), "usd")),
		PriceTimeout:   time.Duration(parseIntWithDefault(os.Getenv("PRICE_TIMEOUT_SECONDS"), 15)) * time.Second,
		JournalEnabled: parseBoolWithDefault(os.Getenv("JOURNAL_ENABLED"), true),
		JournalPath:    stringWithDefault(os.Getenv("JOURNAL_PATH"), "data/wrapper.db"),
		LogPath:        stringWithDefault(os.Getenv("LOG_PATH"), "logs/app.log"),
	}
}

func stringWithDefault(value, defaultVal string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultVal
	}
	return value
}

func parseIntWithDefault(value string, defaultVal int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultVal
	}
	if v, err := strconv.Atoi(value); err == nil && v >= 0 {
		return v
	}
	return defaultVal
}

func parseBoolWithDefault(value string, defaultVal bool) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultVal
	}
	if v, err := strconv.ParseBool(value); err == nil {
		return v
	}
	return defaultVal
}

func (c Config) Validate() error {
	if _, err := NetworkByKey(c.NetworkKey); err != nil {
		return fmt.Errorf("invalid NETWORK: %w", err)
	}
	if strings.TrimSpace(c.Network.RPCURL) == "" {
		return errors.New("RPC url required (provide RPC_URL)")
	}
	if !common.IsHexAddress(c.Network.WrappedToken) {
		return fmt.Errorf("invalid wrapped token address %q", c.Network.WrappedToken)
	}
	if strings.TrimSpace(c.PriceCurrency) == "" {
		return errors.New("price currency required (provide PRICE_CURRENCY)")
	}
	if c.JournalEnabled && strings.TrimSpace(c.JournalPath) == "" {
		return errors.New("journal path required when the journal is enabled")
	}
	return nil
}

// LoadAccounts returns no accounts and no error when the accounts file does
// not exist; the app treats that as a missing wallet provider.
func (c Config) LoadAccounts() ([]Account, error) {
	b, err := os.ReadFile(c.AccountsPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(b)) == "" {
		return nil, nil
	}

	var rawAccounts []string
	if err := json.Unmarshal(b, &rawAccounts); err == nil {
		accounts := make([]Account, 0, len(rawAccounts))
		for idx, entry := range rawAccounts {
			pk := strings.TrimSpace(entry)
			if pk == "" {
				return nil, fmt.Errorf("invalid account input: empty private key at index %d", idx)
			}
			accounts = append(accounts, Account{PrivateKey: pk})
		}
		return accounts, nil
	}

	var accounts []Account
	if err := json.Unmarshal(b, &accounts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
	}

	return accounts, nil
}
