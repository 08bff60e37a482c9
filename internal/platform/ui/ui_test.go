package ui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const txHash = "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"

func etherscan(hash string) string { return "https://etherscan.io/tx/" + hash }

func TestTxLink(t *testing.T) {
	require.Equal(t, "-", TxLink(etherscan, ""))
	require.Equal(t, "-", TxLink(etherscan, "  "))
	require.Equal(t, txHash, TxLink(nil, txHash))
	require.Equal(t, "https://etherscan.io/tx/"+txHash, TxLink(etherscan, txHash))
}
