package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations
var migrationFS embed.FS

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

const schemaMigrationsSQL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    BIGINT PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

// LoadMigrations reads the embedded migration files for dialect, ordered by version.
// Files are named NNNN_description.up.sql / NNNN_description.down.sql.
func LoadMigrations(dialect Dialect) ([]Migration, error) {
	return loadMigrations(migrationFS, path.Join("migrations", string(dialect)))
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migration directory: %w", err)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		base := strings.TrimSuffix(entry.Name(), ".sql")
		var direction Direction
		switch {
		case strings.HasSuffix(base, ".up"):
			direction, base = Up, strings.TrimSuffix(base, ".up")
		case strings.HasSuffix(base, ".down"):
			direction, base = Down, strings.TrimSuffix(base, ".down")
		default:
			return nil, fmt.Errorf("migration %s: missing .up or .down suffix", entry.Name())
		}

		prefix, name, ok := strings.Cut(base, "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: expected NNNN_name", entry.Name())
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s: invalid version: %w", entry.Name(), err)
		}

		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration file %s: %w", entry.Name(), err)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version, Name: name}
			byVersion[version] = m
		}
		if direction == Up {
			m.UpSQL = string(content)
		} else {
			m.DownSQL = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpSQL == "" || m.DownSQL == "" {
			return nil, fmt.Errorf("migration %04d_%s: both up and down files are required", m.Version, m.Name)
		}
		migrations = append(migrations, *m)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })

	return migrations, nil
}

// SplitStatements splits a migration script on statement-terminating semicolons.
// The MySQL driver rejects multi-statement Exec calls unless multiStatements is set.
func SplitStatements(script string) []string {
	var out []string
	for _, stmt := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(stmt, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		if s := strings.TrimSpace(strings.Join(lines, "\n")); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Migrate applies pending up migrations, or rolls back applied ones in reverse
// order. steps limits how many migrations run; zero means all.
func Migrate(ctx context.Context, db *DB, direction Direction, steps int, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	migrations, err := LoadMigrations(db.Dialect())
	if err != nil {
		return 0, err
	}

	if _, err := db.ExecContext(ctx, schemaMigrationsSQL); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return 0, err
	}

	var plan []Migration
	switch direction {
	case Up:
		for _, m := range migrations {
			if !applied[m.Version] {
				plan = append(plan, m)
			}
		}
	case Down:
		for i := len(migrations) - 1; i >= 0; i-- {
			if applied[migrations[i].Version] {
				plan = append(plan, migrations[i])
			}
		}
	default:
		return 0, fmt.Errorf("direction must be %q or %q", Up, Down)
	}

	if steps > 0 && len(plan) > steps {
		plan = plan[:steps]
	}

	for _, m := range plan {
		script := m.UpSQL
		if direction == Down {
			script = m.DownSQL
		}

		logger.Info("running migration", "version", m.Version, "name", m.Name, "direction", direction)
		for _, stmt := range SplitStatements(script) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return 0, fmt.Errorf("execute migration %04d_%s: %w", m.Version, m.Name, err)
			}
		}

		if direction == Up {
			_, err = db.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.Version, m.Name)
		} else {
			_, err = db.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = ?`, m.Version)
		}
		if err != nil {
			return 0, fmt.Errorf("record migration %04d_%s: %w", m.Version, m.Name, err)
		}
	}

	return len(plan), nil
}

func appliedVersions(ctx context.Context, db *DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return applied, nil
}
