package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ohmynofan/weth-wrapper/internal/domain/model"
	"github.com/pterm/pterm"
)

var (
	spinner *pterm.SpinnerPrinter
	mu      sync.Mutex
)

func StartUISystem(title string) {
	pterm.DefaultHeader.WithFullWidth().Println(title)
}

func StopUISystem() {
	mu.Lock()
	defer mu.Unlock()
	if spinner != nil {
		_ = spinner.Stop()
		spinner = nil
	}
}

// UpdateStatus changes the text of the running spinner, if any.
func UpdateStatus(status string) {
	mu.Lock()
	defer mu.Unlock()
	if spinner != nil {
		spinner.UpdateText(status)
	}
}

func StartSpinner(text string) {
	mu.Lock()
	defer mu.Unlock()
	if spinner != nil {
		spinner.UpdateText(text)
		return
	}
	s, err := pterm.DefaultSpinner.WithRemoveWhenDone(false).Start(text)
	if err != nil {
		return
	}
	spinner = s
}

func SetSpinnerSuccess(finalMessage string) {
	mu.Lock()
	defer mu.Unlock()
	if spinner != nil {
		spinner.Success(finalMessage)
		spinner = nil
	}
}

func SetSpinnerError(finalMessage string) {
	mu.Lock()
	defer mu.Unlock()
	if spinner != nil {
		spinner.Fail(finalMessage)
		spinner = nil
	}
}

func RenderConnector(state model.ConnectionState) {
	var content string
	if state.ShowConnect() {
		content = "Not connected"
		if state.Error != "" {
			content += "\n" + pterm.Red(state.Error)
		}
	} else {
		content = fmt.Sprintf("Connected Account: %s", state.Account)
	}
	pterm.DefaultBox.WithTitle("Wallet Connector").Println(content)
}

func RenderWrap(state model.WrapState) {
	native := balanceCard("Pay with", state.Balances.Native, state.PriceDisplay())
	wrapped := balanceCard("Receive", state.Balances.Wrapped, "")

	_ = pterm.DefaultPanel.WithPanels(pterm.Panels{
		{{Data: native}, {Data: wrapped}},
	}).Render()

	if state.Error != "" {
		pterm.Error.Println(state.Error)
	}
}

func balanceCard(title string, balance model.TokenBalance, price string) string {
	var b strings.Builder
	b.WriteString(pterm.FgGray.Sprint(title) + "\n")
	b.WriteString(pterm.Bold.Sprint(defaultString(balance.Symbol, "?")) + "\n")
	b.WriteString("Balance: " + balance.Display())
	if price != "" {
		b.WriteString("\nPrice: " + price)
	}
	return pterm.DefaultBox.Sprint(b.String())
}

func RenderPhase(state model.WrapState, txURL func(string) string) {
	verb := actionVerb(state.Action)
	switch state.Phase {
	case model.PhaseSubmitting:
		StartSpinner(fmt.Sprintf("Submitting %s transaction...", verb))
	case model.PhaseConfirming:
		StartSpinner(fmt.Sprintf("Waiting for %s confirmation %s", verb, TxLink(txURL, state.LastTxHash)))
	default:
		if state.Error != "" {
			SetSpinnerError(state.Error)
			return
		}
		SetSpinnerSuccess(fmt.Sprintf("%s confirmed", strings.ToUpper(verb[:1])+verb[1:]))
	}
}

func RenderHistory(entries []model.JournalEntry, txURL func(string) string) {
	if len(entries) == 0 {
		pterm.Info.Println("No wrap or unwrap actions recorded yet")
		return
	}
	data := pterm.TableData{{"Time", "Action", "Amount", "Status", "Tx"}}
	for _, e := range entries {
		data = append(data, []string{
			e.CreatedAt.Local().Format(time.DateTime),
			string(e.Action),
			e.Amount,
			string(e.Status),
			TxLink(txURL, e.TxHash),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// TxLink renders a transaction hash as an explorer link when txURL is set.
func TxLink(txURL func(string) string, hash string) string {
	if strings.TrimSpace(hash) == "" {
		return "-"
	}
	if txURL == nil {
		return hash
	}
	return txURL(hash)
}

// Alert closes a running spinner with msg, or prints msg as a success line.
func Alert(msg string) {
	mu.Lock()
	active := spinner
	spinner = nil
	mu.Unlock()
	if active != nil {
		active.Success(msg)
		return
	}
	pterm.Success.Println(msg)
}

func ShowError(msg string) {
	pterm.Error.Println(msg)
}

func ShowInfo(msg string) {
	pterm.Info.Println(msg)
}

func actionVerb(action model.Action) string {
	if action == "" {
		return "action"
	}
	return string(action)
}

func defaultString(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}
