package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"irrigation_controller/internal/backup"
)

type BackupCmd struct {
	Export BackupExportCmd `cmd:"" help:"Write a backup of zones, sessions and settings"`
	Import BackupImportCmd `cmd:"" help:"Replace zones and sessions from a backup file (stop a running daemon first, or it overwrites the import)"`
}

type BackupExportCmd struct {
	Out string `short:"o" help:"Output file or directory; '-' writes to stdout" default:"."`
}

func (c *BackupExportCmd) Run(g *Global) error {
	ctx := context.Background()
	a, err := newApp(ctx, g.Config, g.Log)
	if err != nil {
		return err
	}
	defer a.close(g.Log)

	doc, name, err := a.services.Backup.Export(ctx)
	if err != nil {
		return err
	}
	if c.Out == "-" {
		return backup.Encode(os.Stdout, doc)
	}

	path := c.Out
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, name)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	if err := backup.Encode(f, doc); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close backup file: %w", err)
	}
	g.Log.Infow("backup exported", "path", path, "zones", len(doc.Data.Zones), "sessions", len(doc.Data.Sessions))
	return nil
}

type BackupImportCmd struct {
	File string `arg:"" help:"Backup file to import; '-' reads stdin"`
}

func (c *BackupImportCmd) Run(g *Global) error {
	ctx := context.Background()

	var r io.Reader = os.Stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("open backup file: %w", err)
		}
		defer f.Close()
		r = f
	}

	a, err := newApp(ctx, g.Config, g.Log)
	if err != nil {
		return err
	}
	defer a.close(g.Log)

	st, err := a.services.Backup.Import(ctx, r)
	if err != nil {
		return err
	}
	g.Log.Infow("backup imported", "file", c.File, "zones", len(st.Zones), "sessions", len(st.Sessions))
	return nil
}
