package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrEmptySlotName = errors.New("slot name is empty")

type SlotSQLite struct {
	db  *sql.DB
	now func() time.Time
}

func NewSlotSQLite(db *sql.DB) *SlotSQLite {
	return &SlotSQLite{db: db, now: time.Now}
}

const (
	upsertSlotSQL = `
		INSERT INTO store_slots (name, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			document=excluded.document,
			updated_at=excluded.updated_at
	`

	selectSlotSQL = `
		SELECT document FROM store_slots WHERE name=?
	`
)

// Save replaces the document stored under name. updated_at is written in UTC.
func (r *SlotSQLite) Save(ctx context.Context, name string, doc []byte) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptySlotName
	}
	if _, err := r.db.ExecContext(ctx, upsertSlotSQL, name, string(doc), r.now().UTC()); err != nil {
		return fmt.Errorf("save slot %q: %w", name, err)
	}
	return nil
}

// Load returns the document stored under name; found is false when the slot was never written.
func (r *SlotSQLite) Load(ctx context.Context, name string) ([]byte, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrEmptySlotName
	}

	var doc string
	if err := r.db.QueryRowContext(ctx, selectSlotSQL, name).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil // nothing persisted yet
		}
		return nil, false, fmt.Errorf("load slot %q: %w", name, err)
	}
	return []byte(doc), true, nil
}
