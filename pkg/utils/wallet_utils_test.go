package utils

import (
	"math"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const (
	testMnemonic   = "test test test test test test test test test test test junk"
	testPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestDetermineType(t *testing.T) {
	require.Equal(t, TypeSecretPhrase, DetermineType(testMnemonic))
	require.Equal(t, TypePrivateKey, DetermineType(testPrivateKey))
	require.Equal(t, TypePrivateKey, DetermineType(testPrivateKey[2:]))
	require.Equal(t, TypeUnknown, DetermineType("not a key"))
}

func TestKeyFromAccountMnemonicAndKeyAgree(t *testing.T) {
	fromPhrase, _, err := KeyFromAccount(testMnemonic)
	require.NoError(t, err)
	fromKey, pk, err := KeyFromAccount(testPrivateKey)
	require.NoError(t, err)
	require.NotNil(t, pk)

	require.Equal(t, common.HexToAddress(testAddress), fromPhrase)
	require.Equal(t, fromPhrase, fromKey)
}

func TestKeyFromAccountRejectsGarbage(t *testing.T) {
	_, _, err := KeyFromAccount("   ")
	require.ErrorContains(t, err, "invalid account input")
}

func TestParseUnits(t *testing.T) {
	wei, err := ParseUnits("1.5", 18)
	require.NoError(t, err)
	require.Equal(t, "1500000000000000000", wei.String())

	wei, err = ParseUnits(" 0.000000000000000001 ", 18)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1), wei)

	_, err = ParseUnits("0.0000000000000000001", 18)
	require.Error(t, err)

	_, err = ParseUnits("-1", 18)
	require.Error(t, err)

	_, err = ParseUnits("abc", 18)
	require.Error(t, err)
}

func TestFormatting(t *testing.T) {
	one := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	require.Equal(t, "1", FormatUnits(one, 18))
	require.Equal(t, "1.00000", FormatFixed(one, 18, 5))
	require.Equal(t, "0.00000", FormatFixed(nil, 18, 5))
	require.Equal(t, "0.12346", FormatFixed(big.NewInt(123456789), 9, 5))
	require.Equal(t, "$1234.57", FormatPrice(1234.567))
	require.Equal(t, "$0.10", FormatPrice(0.1))
	// 1.005 is stored just below the half, 0.125 exactly on it
	require.Equal(t, "$1.00", FormatPrice(1.005))
	require.Equal(t, "$0.13", FormatPrice(0.125))
	require.Equal(t, "$0.00", FormatPrice(math.NaN()))
}

func TestIsNumericAmount(t *testing.T) {
	require.True(t, IsNumericAmount("0.25"))
	require.True(t, IsNumericAmount("3"))
	require.False(t, IsNumericAmount(""))
	require.False(t, IsNumericAmount("  "))
	require.False(t, IsNumericAmount("1.2.3"))
}

func TestShortenAddress(t *testing.T) {
	require.Equal(t, "0xf39F...2266", ShortenAddress(testAddress))
	require.Equal(t, "short", ShortenAddress("short"))
}
