// internal/spelling/sqlite.go
//
// SQLite-backed dictionary oracle.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Looking up and bulk-importing dictionary words per language.

package spelling

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/assets"
)

// SQLite looks words up in the dictionary(language, word) table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if missing) the database at dsn and migrates it.
func OpenSQLite(dsn string) (*SQLite, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error { return s.db.Close() }

// IsRecognized looks word up for language. A language with no rows at all
// is ErrUnsupportedLanguage, like the in-memory dictionary.
func (s *SQLite) IsRecognized(ctx context.Context, word, language string) (bool, error) {
	lang := baseLanguage(language)
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM dictionary WHERE language=? AND word=?`,
		lang, word,
	).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		// fall through to the language check
	case err != nil:
		return false, fmt.Errorf("dictionary lookup: %w", err)
	default:
		return true, nil
	}

	var known bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM dictionary WHERE language=?)`, lang,
	).Scan(&known); err != nil {
		return false, fmt.Errorf("dictionary lookup: %w", err)
	}
	if !known {
		return false, ErrUnsupportedLanguage
	}
	return false, nil
}

// Import inserts words for lang in one transaction. Existing rows are kept.
// Returns the number of rows actually inserted.
func (s *SQLite) Import(ctx context.Context, lang string, words []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO dictionary(language, word) VALUES (?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	lang = baseLanguage(lang)
	fold := wordFolder(lang)
	inserted := 0
	for _, w := range words {
		w = fold(w)
		if w == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, lang, w)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", w, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// Count returns the number of words stored for lang.
func (s *SQLite) Count(ctx context.Context, lang string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM dictionary WHERE language=?`, baseLanguage(lang),
	).Scan(&n)
	return n, err
}

// openDB opens a SQLite database file, creating its directory for relative
// DSNs like ./data/dictionary.db, with busy timeout and WAL journaling.
func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies *.sql files from migrations in lexical order.
// Applied names are recorded in _migrations and skipped on later runs.
func migrate(db *sql.DB, migrations fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	var files []string
	if err := fs.WalkDir(migrations, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walk migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(migrations, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}
