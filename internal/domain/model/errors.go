package model

import "errors"

var (
	ErrProviderMissing        = errors.New("wallet provider missing")
	ErrConnectionRejected     = errors.New("wallet connection rejected")
	ErrActionSubmissionFailed = errors.New("action submission failed")
	ErrBalanceRefreshFailed   = errors.New("balance refresh failed")
	ErrPriceFetchFailed       = errors.New("price fetch failed")
	ErrActionInFlight         = errors.New("another action is in flight")
	ErrNotReady               = errors.New("wallet or token not ready")
)
