package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"irrigation_controller/internal/backup"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/store"
)

// maxBackupBytes bounds an uploaded backup file.
const maxBackupBytes = 10 << 20

type BackupService struct {
	store    StateStore
	interval string
	log      *logger.Logger
	now      func() time.Time
}

func NewBackupService(d Deps) *BackupService {
	d = d.withDefaults()
	return &BackupService{
		store:    d.Store,
		interval: d.BackupInterval,
		log:      d.Log.Named("backup"),
		now:      d.Now,
	}
}

// Export returns the backup document of the current state and its download name.
func (s *BackupService) Export(ctx context.Context) (backup.Document, string, error) {
	now := s.now()
	doc := backup.Create(s.store.Snapshot(), s.interval, now)
	s.log.Infow("backup_exported", "zones", len(doc.Data.Zones), "sessions", len(doc.Data.Sessions))
	return doc, backup.FileName(now), nil
}

// Import reads a backup file and replaces zones and sessions. The file is read
// in full before the store is touched, so a failed import changes nothing.
func (s *BackupService) Import(ctx context.Context, r io.Reader) (store.State, error) {
	raw, err := io.ReadAll(io.LimitReader(r, maxBackupBytes+1))
	if err != nil {
		return store.State{}, fmt.Errorf("%w: %v", ErrReadBackup, err)
	}
	if len(raw) > maxBackupBytes {
		return store.State{}, ErrBackupTooLarge
	}
	if err := ctx.Err(); err != nil {
		return store.State{}, err
	}

	doc, err := backup.Parse(bytes.NewReader(raw))
	if err != nil {
		s.log.Warnw("backup_rejected", "err", err)
		return store.State{}, err
	}
	st, err := backup.Restore(s.store, doc)
	if err != nil {
		return store.State{}, err
	}
	s.log.Infow("backup_imported", "version", doc.Version, "taken_at", doc.Timestamp,
		"zones", len(st.Zones), "sessions", len(st.Sessions))
	return st, nil
}

// IsFormatError reports whether err means the uploaded file was not a valid backup.
func IsFormatError(err error) bool {
	return errors.Is(err, backup.ErrInvalidFormat) || errors.Is(err, ErrBackupTooLarge)
}
