package txlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ohmynofan/weth-wrapper/internal/domain/model"
	_ "modernc.org/sqlite"
)

const defaultRecentLimit = 20

type Store struct {
	db      *sql.DB
	network string
}

func NewStore(dbPath, network string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	s := &Store{db: db, network: network}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) init() error {
	createStmt := `CREATE TABLE IF NOT EXISTS wrap_actions (
        id TEXT PRIMARY KEY,
        address TEXT NOT NULL,
        action TEXT NOT NULL,
        amount TEXT NOT NULL,
        status TEXT NOT NULL,
        created_at INTEGER NOT NULL
    )`
	if _, err := s.db.Exec(createStmt); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_wrap_actions_address ON wrap_actions(address, created_at)`); err != nil {
		return err
	}
	return s.ensureColumns()
}

func (s *Store) ensureColumns() error {
	columns := map[string]bool{}
	rows, err := s.db.Query(`PRAGMA table_info(wrap_actions)`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		columns[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	alterStatements := []string{}
	addColumn := func(name, definition string) {
		if !columns[name] {
			alterStatements = append(alterStatements, definition)
		}
	}

	addColumn("network", `ALTER TABLE wrap_actions ADD COLUMN network TEXT NOT NULL DEFAULT ''`)
	addColumn("tx_hash", `ALTER TABLE wrap_actions ADD COLUMN tx_hash TEXT`)
	addColumn("error", `ALTER TABLE wrap_actions ADD COLUMN error TEXT`)

	for _, stmt := range alterStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends an entry. Missing ID, network and timestamp are filled in.
func (s *Store) Record(entry model.JournalEntry) (model.JournalEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Network == "" {
		entry.Network = s.network
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.Address = normalizeAddress(entry.Address)

	_, err := s.db.Exec(`INSERT INTO wrap_actions(id, network, address, action, amount, tx_hash, status, error, created_at)
    VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Network, entry.Address, string(entry.Action), entry.Amount,
		nullString(entry.TxHash), string(entry.Status), nullString(entry.Error), entry.CreatedAt.UTC().UnixMilli())
	if err != nil {
		return entry, fmt.Errorf("failed to record %s action: %w", entry.Action, err)
	}
	return entry, nil
}

// Recent returns the newest entries for address on this store's network.
func (s *Store) Recent(address string, limit int) ([]model.JournalEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := s.db.Query(`SELECT id, network, address, action, amount, tx_hash, status, error, created_at
    FROM wrap_actions WHERE address = ? AND network = ?
    ORDER BY created_at DESC, rowid DESC LIMIT ?`, normalizeAddress(address), s.network, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.JournalEntry
	for rows.Next() {
		var e model.JournalEntry
		var action, status string
		var txHash, errMsg sql.NullString
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.Network, &e.Address, &action, &e.Amount, &txHash, &status, &errMsg, &createdAt); err != nil {
			return nil, err
		}
		e.Action = model.Action(action)
		e.Status = model.JournalStatus(status)
		e.TxHash = txHash.String
		e.Error = errMsg.String
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
