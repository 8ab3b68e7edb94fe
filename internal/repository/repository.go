package repository

import (
	"context"
	"database/sql"
)

// SlotRepo stores one JSON document per slot name.
type SlotRepo interface {
	Save(ctx context.Context, name string, doc []byte) error
	Load(ctx context.Context, name string) ([]byte, bool, error)
}

type Repository struct {
	Slots SlotRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Slots: NewSlotSQLite(db),
	}
}
