package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// BackupData is the top-level structure for import/export of the whole
// database.
type BackupData struct {
	Version   string   `json:"version"`
	CreatedAt string   `json:"created_at"`
	Database  Database `json:"database"`
}

// ExportAllData writes the store's current database to a standalone backup
// file at the specified path.
func (s *Store) ExportAllData(exportPath string) error {
	backup := BackupData{
		Version:   "1.0.0",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Database:  s.db,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup data: %w", err)
	}

	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup file and replaces the store's in-memory
// database with its contents, normalized the same way Open normalizes loaded
// data. The caller decides when to Save.
func (s *Store) ImportAllData(importPath string) error {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return fmt.Errorf("invalid backup file: missing version field")
	}
	s.db = normalize(backup.Database)
	return nil
}
