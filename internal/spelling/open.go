package spelling

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordscramble/assets"
)

// bundledLanguage is the language of assets/dictionary.txt.
const bundledLanguage = "en"

// Backend names accepted by Open.
const (
	BackendLocal  = "local"
	BackendSQLite = "sqlite"
	BackendRemote = "remote"
	BackendAlways = "always"
)

// Settings selects and configures an oracle backend.
type Settings struct {
	Backend        string // local | sqlite | remote | always
	Language       string // language the word file is in
	DictionaryFile string // optional word list for local/sqlite seeding
	DictionaryDB   string // sqlite path
	DictionaryURL  string // remote base URL
}

// Open builds the configured oracle. The returned close func is never nil.
//
// Behavior:
//   - local:  in-memory dictionary from DictionaryFile, else the bundled list.
//   - sqlite: opens DictionaryDB; an empty table is seeded like local.
//   - remote: HTTP lookups wrapped in Cached.
//   - always: accepts every word.
//
// The bundled list is English and is only registered under "en". Other
// languages need DictionaryFile (or the remote backend); until then lookups
// fail with ErrUnsupportedLanguage.
func Open(ctx context.Context, s Settings) (Oracle, func() error, error) {
	noop := func() error { return nil }
	lang := s.Language
	if lang == "" {
		lang = "en"
	}

	switch s.Backend {
	case BackendLocal, "":
		d, err := localDictionary(lang, s.DictionaryFile)
		if err != nil {
			return nil, noop, err
		}
		return d, noop, nil

	case BackendSQLite:
		db, err := OpenSQLite(s.DictionaryDB)
		if err != nil {
			return nil, noop, fmt.Errorf("open dictionary db: %w", err)
		}
		if err := seedSQLite(ctx, db, lang, s.DictionaryFile); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return db, db.Close, nil

	case BackendRemote:
		return NewCached(NewRemote(s.DictionaryURL)), noop, nil

	case BackendAlways:
		log.Warn().Msg("spelling oracle accepts every word")
		return AlwaysTrue{}, noop, nil
	}
	return nil, noop, fmt.Errorf("spelling: unknown backend %q", s.Backend)
}

func localDictionary(lang, path string) (*Dictionary, error) {
	if path == "" {
		warnEnglishOnly(lang)
		d, err := EmbeddedDictionary()
		if err != nil {
			return nil, err
		}
		log.Info().Int("words", d.Len(bundledLanguage)).Str("lang", bundledLanguage).Msg("bundled dictionary loaded")
		return d, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := LoadDictionary(lang, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	log.Info().Int("words", d.Len(lang)).Str("lang", lang).Str("file", path).Msg("local dictionary loaded")
	return d, nil
}

// seedSQLite fills an empty table: the file under lang, else the bundled
// list under "en".
func seedSQLite(ctx context.Context, db *SQLite, lang, path string) error {
	if path == "" {
		warnEnglishOnly(lang)
		lang = bundledLanguage
	}

	n, err := db.Count(ctx, lang)
	if err != nil || n > 0 {
		return err
	}

	var words []string
	if path == "" {
		words, err = assets.DictionaryList()
	} else {
		words, err = readWordFile(path)
	}
	if err != nil {
		return err
	}
	if n, err = db.Import(ctx, lang, words); err != nil {
		return fmt.Errorf("seed dictionary: %w", err)
	}
	log.Info().Int("words", n).Str("lang", lang).Msg("dictionary db seeded")
	return nil
}

func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return assets.ReadLines(f)
}

func warnEnglishOnly(lang string) {
	if baseLanguage(lang) != bundledLanguage {
		log.Warn().Str("lang", lang).Msg("bundled dictionary is English only; set DICTIONARY_FILE for this language")
	}
}
