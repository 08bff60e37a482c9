package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohmynofan/weth-wrapper/internal/config"
	"github.com/ohmynofan/weth-wrapper/internal/domain/model"
	"github.com/ohmynofan/weth-wrapper/internal/storage/txlog"
)

const (
	testKey     = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	accounts := filepath.Join(dir, "accounts.json")
	require.NoError(t, os.WriteFile(accounts, []byte(`["`+testKey+`"]`), 0o600))
	return config.Config{
		NetworkKey:     "sepolia",
		Network:        config.Sepolia,
		AccountsPath:   accounts,
		JournalEnabled: true,
		JournalPath:    filepath.Join(dir, "wrapper.db"),
	}
}

func TestHistoryReadsJournal(t *testing.T) {
	cfg := testConfig(t)
	store, err := txlog.NewStore(cfg.JournalPath, cfg.NetworkKey)
	require.NoError(t, err)
	_, err = store.Record(model.JournalEntry{Address: testAddress, Action: model.ActionWrap, Amount: "1", Status: model.JournalConfirmed})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, New(cfg).History(1, 5))
}

func TestHistoryValidatesInput(t *testing.T) {
	cfg := testConfig(t)
	require.Error(t, New(cfg).History(2, 5))

	cfg.JournalEnabled = false
	require.ErrorIs(t, New(cfg).History(1, 5), ErrJournalDisabled)
}
