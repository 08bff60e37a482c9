package config

import (
	"fmt"
	"strings"

	"github.com/ohmynofan/weth-wrapper/internal/adapters/weth"
)

type Network struct {
	Name          string
	Key           string
	ChainID       int
	RPCURL        string
	Explorer      string
	Symbol        string
	WrappedSymbol string
	WrappedToken  string
	Decimals      int
	PriceAssetID  string
}

var EthereumMainnet = Network{
	Name:          "Ethereum Mainnet",
	Key:           "mainnet",
	ChainID:       1,
	RPCURL:        "https://ethereum-rpc.publicnode.com",
	Explorer:      "https://etherscan.io/",
	Symbol:        "ETH",
	WrappedSymbol: "WETH",
	WrappedToken:  weth.TokenAddress,
	Decimals:      18,
	PriceAssetID:  "ethereum",
}

var Sepolia = Network{
	Name:          "Sepolia",
	Key:           "sepolia",
	ChainID:       11155111,
	RPCURL:        "https://ethereum-sepolia-rpc.publicnode.com",
	Explorer:      "https://sepolia.etherscan.io/",
	Symbol:        "ETH",
	WrappedSymbol: "WETH",
	WrappedToken:  "0x7b79995e5f793A07Bc00c21412e50Ecae098E7f9",
	Decimals:      18,
	PriceAssetID:  "ethereum",
}

var networks = map[string]Network{
	EthereumMainnet.Key: EthereumMainnet,
	Sepolia.Key:         Sepolia,
}

func NetworkByKey(key string) (Network, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return EthereumMainnet, nil
	}
	n, ok := networks[key]
	if !ok {
		return Network{}, fmt.Errorf("unknown network %q", key)
	}
	return n, nil
}

func (n Network) TxURL(hash string) string {
	if n.Explorer == "" {
		return hash
	}
	return strings.TrimRight(n.Explorer, "/") + "/tx/" + hash
}
