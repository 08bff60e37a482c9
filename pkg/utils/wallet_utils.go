package utils

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	bip32 "github.com/tyler-smith/go-bip32"
	bip39 "github.com/tyler-smith/go-bip39"
)

var pkRegex = regexp.MustCompile(`^[a-fA-F0-9]{64}$`)

const (
	TypeSecretPhrase = "Secret Phrase"
	TypePrivateKey   = "Private Key"
	TypeUnknown      = "Unknown"
)

func ShortenAddress(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}

func DetermineType(input string) string {
	if IsMnemonic(input) {
		return TypeSecretPhrase
	}
	if IsPrivateKey(input) {
		return TypePrivateKey
	}
	return TypeUnknown
}
func IsMnemonic(input string) bool {
	return bip39.IsMnemonicValid(strings.TrimSpace(input))
}
func IsPrivateKey(input string) bool {
	data := strings.TrimPrefix(strings.TrimSpace(input), "0x")
	return pkRegex.MatchString(data)
}
func PrivateKeyFromHex(input string) (*ecdsa.PrivateKey, error) {
	data := strings.TrimPrefix(strings.TrimSpace(input), "0x")
	return crypto.HexToECDSA(data)
}

// KeyFromAccount accepts either a BIP-39 phrase or a hex private key.
func KeyFromAccount(input string) (common.Address, *ecdsa.PrivateKey, error) {
	data := strings.TrimSpace(input)
	switch DetermineType(data) {
	case TypeSecretPhrase:
		addr, pk, err := AddressFromMnemonic(data, "")
		if err != nil {
			return common.Address{}, nil, fmt.Errorf("failed to read from seed phrase: %w", err)
		}
		return addr, pk, nil
	case TypePrivateKey:
		pk, err := PrivateKeyFromHex(data)
		if err != nil {
			return common.Address{}, nil, fmt.Errorf("invalid private key: %w", err)
		}
		return crypto.PubkeyToAddress(pk.PublicKey), pk, nil
	default:
		return common.Address{}, nil, errors.New("invalid account input: Secret Phrase or Private Key required")
	}
}

func AddressFromMnemonic(mnemonic, passphrase string) (common.Address, *ecdsa.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return common.Address{}, nil, errors.New("invalid BIP-39 mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, passphrase)
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return common.Address{}, nil, err
	}
	h := func(i uint32) uint32 { return i + bip32.FirstHardenedChild }
	purpose, err := master.NewChildKey(h(44))
	if err != nil {
		return common.Address{}, nil, err
	}
	coin, err := purpose.NewChildKey(h(60))
	if err != nil {
		return common.Address{}, nil, err
	}
	acct, err := coin.NewChildKey(h(0))
	if err != nil {
		return common.Address{}, nil, err
	}
	change, err := acct.NewChildKey(0)
	if err != nil {
		return common.Address{}, nil, err
	}
	index0, err := change.NewChildKey(0)
	if err != nil {
		return common.Address{}, nil, err
	}
	pk, err := crypto.ToECDSA(index0.Key)
	if err != nil {
		return common.Address{}, nil, err
	}
	return crypto.PubkeyToAddress(pk.PublicKey), pk, nil
}

func IsNumericAmount(amount string) bool {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return false
	}
	_, err := decimal.NewFromString(amount)
	return err == nil
}

// ParseUnits converts a decimal string into base units. More fractional digits
// than decimals is an error, not a silent truncation.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if value.IsNegative() {
		return nil, fmt.Errorf("invalid amount %q: must not be negative", amount)
	}

	shifted := value.Shift(int32(decimals))
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, fmt.Errorf("invalid amount %q: more than %d fractional digits", amount, decimals)
	}
	return shifted.BigInt(), nil
}

func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}

// FormatFixed renders base units with a fixed number of fractional digits.
// A nil amount renders as zero.
func FormatFixed(amount *big.Int, decimals, places int) string {
	if amount == nil {
		return decimal.Zero.StringFixed(int32(places))
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).StringFixed(int32(places))
}

// FormatPrice rounds the exact binary value of price, halves away from zero.
func FormatPrice(price float64) string {
	exact := new(big.Rat).SetFloat64(price)
	if exact == nil {
		return "$" + decimal.Zero.StringFixed(2)
	}
	return "$" + exact.FloatString(2)
}
