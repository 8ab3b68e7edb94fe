package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	ic "irrigation_controller"
	"irrigation_controller/internal/backup"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestBackupService_ExportImport(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.deps.BackupInterval = "daily"
	svc := NewBackupService(f.deps)
	ctx := context.Background()

	f.store.AddZone(ic.Zone{ID: "z", Name: "Башта", Schedule: []ic.Schedule{}})
	doc, name, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if name != "irrigation-backup-2025-06-02.json" {
		t.Fatalf("file name %q", name)
	}
	if doc.Data.Settings.BackupInterval != "daily" {
		t.Fatalf("interval %q", doc.Data.Settings.BackupInterval)
	}

	var buf bytes.Buffer
	if err := backup.Encode(&buf, doc); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	other := newFixture(t)
	st, err := NewBackupService(other.deps).Import(ctx, &buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(st.Zones) != 2 || st.Zones[1].ID != "z" {
		t.Fatalf("zones not restored: %+v", st.Zones)
	}
}

func TestBackupService_ImportFailuresLeaveStateUnchanged(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cases := []struct {
		name     string
		body     string
		isFormat bool
		wantErr  error
	}{
		{
			name:     "missing version",
			body:     `{"timestamp":"2025-01-01T00:00:00Z","data":{"zones":[],"sessions":[]}}`,
			isFormat: true,
			wantErr:  backup.ErrInvalidFormat,
		},
		{
			name:     "empty data",
			body:     `{"version":"1.0","timestamp":"2025-01-01T00:00:00Z","data":{}}`,
			isFormat: true,
			wantErr:  backup.ErrInvalidFormat,
		},
		{
			name:     "trailing bytes",
			body:     `{"version":"1.0","timestamp":"2025-01-01T00:00:00Z","data":{"zones":[],"sessions":[]}} x`,
			isFormat: true,
			wantErr:  backup.ErrInvalidFormat,
		},
		{name: "read error", wantErr: ErrReadBackup},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			svc := NewBackupService(f.deps)
			before := f.store.Snapshot()

			var err error
			if tc.wantErr == ErrReadBackup {
				_, err = svc.Import(ctx, failingReader{})
			} else {
				_, err = svc.Import(ctx, strings.NewReader(tc.body))
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			if IsFormatError(err) != tc.isFormat {
				t.Fatalf("IsFormatError(%v) = %v, want %v", err, !tc.isFormat, tc.isFormat)
			}
			after := f.store.Snapshot()
			if len(after.Zones) != len(before.Zones) || len(after.Sessions) != len(before.Sessions) {
				t.Fatalf("state changed after failed import")
			}
		})
	}
}

func TestBackupService_TooLarge(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	svc := NewBackupService(f.deps)

	big := strings.NewReader(strings.Repeat(" ", maxBackupBytes+1))
	if _, err := svc.Import(context.Background(), big); !errors.Is(err, ErrBackupTooLarge) {
		t.Fatalf("want ErrBackupTooLarge, got %v", err)
	}
}
