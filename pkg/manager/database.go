package manager

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mixos-go/mixdep/pkg/loader"
)

// Database is the sqlite package index. Every imported entry is stored as
// declared, one row per entry, so replaying the rows in order rebuilds the
// same graph the index files describe. It also records which packages are
// installed.
type Database struct {
	db *sql.DB
}

func NewDatabase(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	d := &Database{db: db}
	if err := d.init(); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

func (d *Database) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sources (
		path TEXT PRIMARY KEY,
		digest TEXT NOT NULL,
		position INTEGER NOT NULL,
		import_time DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS entries (
		source TEXT NOT NULL,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL,
		version TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		dependencies TEXT NOT NULL DEFAULT '[]',
		PRIMARY KEY (source, seq)
	);

	CREATE TABLE IF NOT EXISTS installed (
		name TEXT PRIMARY KEY,
		install_time DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_entries_name ON entries(name);
	`

	_, err := d.db.Exec(schema)
	return err
}

func (d *Database) Close() error {
	return d.db.Close()
}

// SourceDigest returns the digest recorded for a source path, or "" if the
// source was never imported
func (d *Database) SourceDigest(ctx context.Context, path string) (string, error) {
	var digest string
	err := d.db.QueryRowContext(ctx, `SELECT digest FROM sources WHERE path = ?`, path).Scan(&digest)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return digest, err
}

// ImportEntries replaces everything previously stored for source with
// entries, in one transaction. A source keeps the position it got on its
// first import.
func (d *Database) ImportEntries(ctx context.Context, source, digest string, entries []loader.Entry) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE source = ?`, source); err != nil {
		return fmt.Errorf("failed to clear entries of %s: %w", source, err)
	}

	for seq, e := range entries {
		deps := e.Dependencies
		if deps == nil {
			deps = []string{}
		}
		data, err := json.Marshal(deps)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO entries (source, seq, name, version, description, dependencies)
			VALUES (?, ?, ?, ?, ?, ?)
		`, source, seq, e.Name, e.Version, e.Description, string(data))
		if err != nil {
			return fmt.Errorf("failed to store package %s: %w", e.Name, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sources (path, digest, position)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM sources))
		ON CONFLICT(path) DO UPDATE SET
			digest = excluded.digest,
			import_time = CURRENT_TIMESTAMP
	`, source, digest)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Entries returns every stored entry in replay order: sources by first
// import, entries by declaration within their source
func (d *Database) Entries(ctx context.Context) ([]loader.Entry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT e.name, e.version, e.description, e.dependencies
		FROM entries e
		JOIN sources s ON e.source = s.path
		ORDER BY s.position, e.seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []loader.Entry
	for rows.Next() {
		var e loader.Entry
		var deps string
		if err := rows.Scan(&e.Name, &e.Version, &e.Description, &deps); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(deps), &e.Dependencies); err != nil {
			return nil, fmt.Errorf("corrupt dependencies for %s: %w", e.Name, err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// GetPackage returns the merged declarations of name
func (d *Database) GetPackage(ctx context.Context, name string) (*PackageInfo, error) {
	pkgs, err := d.GetAllPackages(ctx)
	if err != nil {
		return nil, err
	}
	for i := range pkgs {
		if pkgs[i].Name == name {
			return &pkgs[i], nil
		}
	}
	return nil, &PackageNotFoundError{Name: name}
}

// GetAllPackages returns every declared package once, in the order it was
// first declared. Repeated declarations append their dependencies, and a
// later non-empty version or description wins.
func (d *Database) GetAllPackages(ctx context.Context) ([]PackageInfo, error) {
	entries, err := d.Entries(ctx)
	if err != nil {
		return nil, err
	}
	installed, err := d.ListInstalled(ctx)
	if err != nil {
		return nil, err
	}
	isInstalled := make(map[string]bool, len(installed))
	for _, name := range installed {
		isInstalled[name] = true
	}

	var packages []PackageInfo
	seen := make(map[string]int)
	for _, e := range entries {
		i, ok := seen[e.Name]
		if !ok {
			i = len(packages)
			seen[e.Name] = i
			packages = append(packages, PackageInfo{
				Name:         e.Name,
				Dependencies: []string{},
				Installed:    isInstalled[e.Name],
			})
		}
		pkg := &packages[i]
		pkg.Dependencies = append(pkg.Dependencies, e.Dependencies...)
		if e.Version != "" {
			pkg.Version = e.Version
		}
		if e.Description != "" {
			pkg.Description = e.Description
		}
	}

	return packages, nil
}

// RecordInstallation marks names as installed
func (d *Database) RecordInstallation(ctx context.Context, names []string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, name := range names {
		_, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO installed (name) VALUES (?)`, name)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *Database) RemoveInstallation(ctx context.Context, name string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM installed WHERE name = ?`, name)
	return err
}

func (d *Database) IsInstalled(ctx context.Context, name string) (bool, error) {
	var count int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM installed WHERE name = ?`, name).Scan(&count)
	return count > 0, err
}

// ListInstalled returns installed package names in install order
func (d *Database) ListInstalled(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT name FROM installed ORDER BY install_time, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
