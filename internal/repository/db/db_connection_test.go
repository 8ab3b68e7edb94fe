package db

import (
	"path/filepath"
	"testing"
)

func TestInitDB_CreatesSlotTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "irrigation.db")

	conn, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB() error = %v", err)
	}
	defer conn.Close()

	if _, err := conn.Exec(`INSERT INTO store_slots (name, document, updated_at) VALUES ('a', '{}', CURRENT_TIMESTAMP)`); err != nil {
		t.Fatalf("insert into store_slots: %v", err)
	}
	var doc string
	if err := conn.QueryRow(`SELECT document FROM store_slots WHERE name='a'`).Scan(&doc); err != nil {
		t.Fatalf("select: %v", err)
	}
	if doc != "{}" {
		t.Fatalf("document = %q", doc)
	}

	// reopening must be idempotent
	conn2, err := InitDB(path)
	if err != nil {
		t.Fatalf("second InitDB() error = %v", err)
	}
	_ = conn2.Close()
}
