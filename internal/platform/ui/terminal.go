package ui

import (
	"github.com/ohmynofan/weth-wrapper/internal/domain/model"
	"github.com/pterm/pterm"
)

// Terminal is the interactive pterm front end used by the session worker.
type Terminal struct {
	TxURL func(hash string) string
}

func (Terminal) Select(title string, options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.
		WithDefaultText(title).
		WithOptions(options).
		Show()
}

func (Terminal) Input(label string) (string, error) {
	return pterm.DefaultInteractiveTextInput.Show(label)
}

func (Terminal) Connector(state model.ConnectionState) { RenderConnector(state) }

func (Terminal) Wrap(state model.WrapState) { RenderWrap(state) }

func (t Terminal) Phase(state model.WrapState) { RenderPhase(state, t.TxURL) }

func (t Terminal) History(entries []model.JournalEntry) { RenderHistory(entries, t.TxURL) }

func (Terminal) Alert(msg string) { Alert(msg) }

func (Terminal) Error(msg string) { ShowError(msg) }
