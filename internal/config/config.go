// internal/config/config.go
//
// Runtime configuration, read from the environment (and .env files).
//
// Environment variables:
//   PORT              HTTP port (default 5175)
//   LOG_LEVEL         zerolog level (default info)
//   LANGUAGE          BCP 47 tag for case mapping + oracle lookups (default en)
//   FALLBACK_WORD     root word when the pool is unusable (default silkworm)
//   ORACLE            local | sqlite | remote | always (default local)
//   ORACLE_TIMEOUT    per-lookup bound, Go duration (default 3s)
//   DICTIONARY_FILE   word list for local/sqlite oracles
//   DICTIONARY_DB     sqlite path (default ./data/dictionary.db)
//   DICTIONARY_URL    remote dictionary base URL
//   APP_SECRET        master secret; player-token key and daily salt derive from it
//   PLAYER_TTL_DAYS   player cookie lifetime (default 30)
//   CLIENT_ORIGIN     CORS origin (default http://localhost:5173)
//   NODE_ENV          "production" enables secure cookies
//
// WORDS_START_FILE / WORDS_START_URL are read by the words package.

package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/text/language"

	"github.com/robalobadob/wordscramble/internal/spelling"
)

const devSecret = "dev_secret_change_me"

// Config is the resolved runtime configuration.
type Config struct {
	Port          string
	LogLevel      string
	Language      string
	FallbackWord  string
	OracleTimeout time.Duration
	Spelling      spelling.Settings

	ClientOrigin string
	Production   bool
	PlayerTTL    time.Duration

	// Derived from APP_SECRET.
	TokenKey  []byte
	DailySalt string
	DevSecret bool // APP_SECRET unset; fine locally, not in production
}

// LoadEnv loads .env files into the process environment.
// With no names it tries ./.env and ignores a missing file; named files must exist.
func LoadEnv(names ...string) error {
	if len(names) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	return godotenv.Load(names...)
}

// FromEnv resolves a Config from the current environment.
func FromEnv() (Config, error) {
	c := Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Language:     getEnv("LANGUAGE", "en"),
		FallbackWord: getEnv("FALLBACK_WORD", "silkworm"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   os.Getenv("NODE_ENV") == "production",
	}

	tag, err := language.Parse(c.Language)
	if err != nil {
		return c, fmt.Errorf("LANGUAGE %q: %w", c.Language, err)
	}
	c.Language = tag.String()

	if c.OracleTimeout, err = time.ParseDuration(getEnv("ORACLE_TIMEOUT", "3s")); err != nil {
		return c, fmt.Errorf("ORACLE_TIMEOUT: %w", err)
	}

	days, err := strconv.Atoi(getEnv("PLAYER_TTL_DAYS", "30"))
	if err != nil || days <= 0 {
		return c, fmt.Errorf("PLAYER_TTL_DAYS must be a positive integer")
	}
	c.PlayerTTL = time.Duration(days) * 24 * time.Hour

	c.Spelling = spelling.Settings{
		Backend:        getEnv("ORACLE", spelling.BackendLocal),
		Language:       c.Language,
		DictionaryFile: os.Getenv("DICTIONARY_FILE"),
		DictionaryDB:   getEnv("DICTIONARY_DB", "./data/dictionary.db"),
		DictionaryURL:  os.Getenv("DICTIONARY_URL"),
	}

	secret := os.Getenv("APP_SECRET")
	if secret == "" {
		secret = devSecret
		c.DevSecret = true
	}
	if c.TokenKey, err = deriveKey(secret, "player-token", 32); err != nil {
		return c, err
	}
	salt, err := deriveKey(secret, "daily-salt", 16)
	if err != nil {
		return c, err
	}
	c.DailySalt = fmt.Sprintf("%x", salt)
	return c, nil
}

// deriveKey expands secret into an n-byte key bound to purpose (HKDF-SHA256).
func deriveKey(secret, purpose string, n int) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("wordscramble/"+purpose))
	key := make([]byte, n)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
