package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// MigrationFiles lists the .surql files in fsys, sorted lexically.
func MigrationFiles(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".surql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ApplyMigrations executes every migration file in order. Migrations are
// written with IF NOT EXISTS, so re-running them is harmless.
func ApplyMigrations(ctx context.Context, db Database, fsys fs.FS) error {
	names, err := MigrationFiles(fsys)
	if err != nil {
		return err
	}

	for _, name := range names {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading %s: %w", name, err)
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}
		if err := db.Execute(ctx, string(content), nil); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}
