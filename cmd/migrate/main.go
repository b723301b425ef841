// Package main applies SQL migrations against the configured database.
// The server never touches the schema; this tool owns it.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		dir         = flag.String("dir", "migrations", "Directory containing migration files")
		down        = flag.Bool("down", false, "Revert the most recently applied migration")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open database:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Fprintln(os.Stderr, "ping database:", err)
		os.Exit(1)
	}

	if err := ensureVersionTable(db); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	if *down {
		err = revertLatest(db, *dir)
	} else {
		err = applyPending(db, *dir)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func ensureVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// version extracts the numeric prefix of a migration filename,
// e.g. "000002" from "000002_tasks.up.sql".
func version(name string) string {
	base := filepath.Base(name)
	if i := strings.Index(base, "_"); i > 0 {
		return base[:i]
	}
	return base
}

func appliedVersions(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func applyPending(db *sql.DB, dir string) error {
	ups, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(ups)

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, path := range ups {
		v := version(path)
		if applied[v] {
			continue
		}

		sqlBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin %s: %w", v, err)
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply %s: %w", filepath.Base(path), err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES ($1)`, v); err != nil {
			tx.Rollback()
			return fmt.Errorf("record %s: %w", v, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", v, err)
		}

		fmt.Println("applied", filepath.Base(path))
	}

	return nil
}

func revertLatest(db *sql.DB, dir string) error {
	var latest string
	err := db.QueryRow(`SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&latest)
	if err == sql.ErrNoRows {
		fmt.Println("nothing to revert")
		return nil
	}
	if err != nil {
		return fmt.Errorf("find latest version: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, latest+"_*.down.sql"))
	if err != nil || len(matches) == 0 {
		return fmt.Errorf("no down migration for version %s", latest)
	}

	sqlBytes, err := os.ReadFile(matches[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", matches[0], err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin revert %s: %w", latest, err)
	}
	if _, err := tx.Exec(string(sqlBytes)); err != nil {
		tx.Rollback()
		return fmt.Errorf("revert %s: %w", filepath.Base(matches[0]), err)
	}
	if _, err := tx.Exec(`DELETE FROM schema_migrations WHERE version = $1`, latest); err != nil {
		tx.Rollback()
		return fmt.Errorf("unrecord %s: %w", latest, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit revert %s: %w", latest, err)
	}

	fmt.Println("reverted", filepath.Base(matches[0]))
	return nil
}
