package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// createSchema creates the normas table.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS normas (
			tipo TEXT NOT NULL,
			numero TEXT NOT NULL,
			ano TEXT NOT NULL,
			titulo TEXT,
			ementa TEXT,
			fonte TEXT,
			url TEXT,
			arquivo_local TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_normas_tipo_ano ON normas(tipo, ano);
	`
	_, err := db.Exec(schema)
	return err
}

// SQLiteIndex builds a SQLite database holding entries in table normas and
// returns the database file bytes.
func SQLiteIndex(entries []Entry) ([]byte, error) {
	dir, err := os.MkdirTemp("", "legis-index-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating temp dir: %v", ErrArchive, err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, SQLiteIndexName)
	if err := writeSQLite(path, entries); err != nil {
		return nil, fmt.Errorf("%w: building SQLite index: %v", ErrArchive, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading SQLite index: %v", ErrArchive, err)
	}
	return data, nil
}

func writeSQLite(path string, entries []Entry) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO normas (tipo, numero, ano, titulo, ementa, fonte, url, arquivo_local)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Type, e.Number, e.Year, e.Title, e.Summary, e.Source, e.URL, e.LocalPath); err != nil {
			return fmt.Errorf("inserting %s %s/%s: %w", e.Type, e.Number, e.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return db.Close()
}
