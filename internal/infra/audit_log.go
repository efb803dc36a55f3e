package infra

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlcipher "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/eliteGoblin/focusd/app_block/internal/domain"
)

// Ensure sqlcipher driver is registered.
var _ = sqlcipher.ErrBusy

const auditDBName = "audit.db"

const auditSchema = `
CREATE TABLE IF NOT EXISTS block_actions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	executed_at INTEGER NOT NULL,
	variant TEXT NOT NULL,
	rule TEXT NOT NULL,
	action TEXT NOT NULL,
	scope INTEGER NOT NULL,
	target TEXT NOT NULL DEFAULT '',
	process TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	applied INTEGER NOT NULL,
	error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_block_actions_executed_at ON block_actions (executed_at);
`

// EncryptedAuditLog stores block actions in a SQLCipher database.
type EncryptedAuditLog struct {
	db     *sql.DB
	dbPath string
}

// NewEncryptedAuditLog opens (or creates) audit.db in dataDir, keyed with key.
func NewEncryptedAuditLog(dataDir string, key []byte) (*EncryptedAuditLog, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, auditDBName)
	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", dbPath, hex.EncodeToString(key))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	// A wrong key only surfaces on the first real query.
	if _, err := db.Exec(auditSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise audit database %s: %w", dbPath, err)
	}

	return &EncryptedAuditLog{db: db, dbPath: dbPath}, nil
}

// Record appends one entry. ExecutedAt defaults to now.
func (l *EncryptedAuditLog) Record(ctx context.Context, e domain.AuditEntry) error {
	if e.ExecutedAt.IsZero() {
		e.ExecutedAt = time.Now()
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO block_actions
			(executed_at, variant, rule, action, scope, target, process, title, applied, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ExecutedAt.UnixMilli(), string(e.Variant), string(e.Rule), e.Action.String(),
		int(e.Scope), e.Target, e.Process, e.Title, e.Applied, e.Error,
	)
	if err != nil {
		return fmt.Errorf("record block action: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. limit <= 0 means all.
func (l *EncryptedAuditLog) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, executed_at, variant, rule, action, scope, target, process, title, applied, error
		FROM block_actions
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query block actions: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			e                     domain.AuditEntry
			executedAt            int64
			variant, rule, action string
			scope                 int
		)
		if err := rows.Scan(&e.ID, &executedAt, &variant, &rule, &action, &scope,
			&e.Target, &e.Process, &e.Title, &e.Applied, &e.Error); err != nil {
			return nil, err
		}
		e.ExecutedAt = time.UnixMilli(executedAt)
		e.Variant = domain.Variant(variant)
		e.Rule = domain.Rule(rule)
		e.Scope = domain.TargetScope(scope)
		// Unknown action text reads back as close.
		e.Action, _ = domain.ParseAppBlockAction(action)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (l *EncryptedAuditLog) Count(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM block_actions`).Scan(&n)
	return n, err
}

// Path returns the database file path.
func (l *EncryptedAuditLog) Path() string {
	return l.dbPath
}

// Close releases the database connection.
func (l *EncryptedAuditLog) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

var _ domain.AuditLog = (*EncryptedAuditLog)(nil)
