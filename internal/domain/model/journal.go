package model

import "time"

type JournalStatus string

const (
	JournalConfirmed JournalStatus = "confirmed"
	JournalFailed    JournalStatus = "failed"
)

// JournalEntry is one finished wrap or unwrap attempt.
type JournalEntry struct {
	ID        string
	Network   string
	Address   string
	Action    Action
	Amount    string
	TxHash    string
	Status    JournalStatus
	Error     string
	CreatedAt time.Time
}
