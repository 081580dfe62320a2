// internal/spelling/oracle.go
//
// Spelling oracles answer one question: is this word a recognized word in
// this language? The rule engine treats them as black boxes.
//
// Implementations:
//   - AlwaysTrue: accepts everything (tests, offline play).
//   - Dictionary: in-memory word sets keyed by language.
//   - SQLite:     dictionary table in a sqlite database.
//   - Remote:     HTTP lookup against a dictionary API.
//   - Cached:     memoizing wrapper for any of the above.

package spelling

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Oracle reports whether word is recognized in language.
// A non-nil error means "no answer", never "not a word".
type Oracle interface {
	IsRecognized(ctx context.Context, word, language string) (bool, error)
}

// ErrUnsupportedLanguage is returned when an oracle has no data for a language.
var ErrUnsupportedLanguage = errors.New("spelling: unsupported language")

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, word, language string) (bool, error)

func (f OracleFunc) IsRecognized(ctx context.Context, word, language string) (bool, error) {
	return f(ctx, word, language)
}

// AlwaysTrue recognizes every word.
type AlwaysTrue struct{}

func (AlwaysTrue) IsRecognized(context.Context, string, string) (bool, error) { return true, nil }

// baseLanguage reduces a tag like "en-US" to "en" for lookups.
func baseLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return lang
}

// wordFolder returns the normalizer for stored words in lang: trim, then
// lower-case with lang's rules, the same way the rule engine treats
// candidates (Turkish "KITAP" -> "kıtap").
func wordFolder(lang string) func(string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	c := cases.Lower(tag)
	return func(w string) string { return c.String(strings.TrimSpace(w)) }
}

// Cached memoizes definite answers from another oracle.
// Errors are passed through and never cached.
type Cached struct {
	next Oracle
	mu   sync.RWMutex
	seen map[string]bool
}

// NewCached wraps next with an unbounded answer cache.
func NewCached(next Oracle) *Cached {
	return &Cached{next: next, seen: make(map[string]bool)}
}

func (c *Cached) IsRecognized(ctx context.Context, word, language string) (bool, error) {
	key := baseLanguage(language) + "\x00" + word

	c.mu.RLock()
	ok, hit := c.seen[key]
	c.mu.RUnlock()
	if hit {
		return ok, nil
	}

	ok, err := c.next.IsRecognized(ctx, word, language)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	c.seen[key] = ok
	c.mu.Unlock()
	return ok, nil
}

// Len returns the number of cached answers.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.seen)
}
