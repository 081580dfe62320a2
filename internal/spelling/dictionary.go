package spelling

import (
	"context"
	"io"
	"sync"

	"github.com/robalobadob/wordscramble/assets"
)

// Dictionary is an in-memory oracle: one word set per base language.
type Dictionary struct {
	mu    sync.RWMutex
	langs map[string]map[string]struct{}
}

// NewDictionary builds a dictionary holding words for lang.
func NewDictionary(lang string, words []string) *Dictionary {
	d := &Dictionary{langs: make(map[string]map[string]struct{})}
	d.Add(lang, words...)
	return d
}

// LoadDictionary reads one word per line from r ("#" comments allowed).
func LoadDictionary(lang string, r io.Reader) (*Dictionary, error) {
	words, err := assets.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return NewDictionary(lang, words), nil
}

// EmbeddedDictionary returns the bundled dictionary. It only knows English.
func EmbeddedDictionary() (*Dictionary, error) {
	words, err := assets.DictionaryList()
	if err != nil {
		return nil, err
	}
	return NewDictionary(bundledLanguage, words), nil
}

// Add inserts words for lang, trimmed and lower-cased with lang's rules.
func (d *Dictionary) Add(lang string, words ...string) {
	lang = baseLanguage(lang)
	d.mu.Lock()
	defer d.mu.Unlock()
	set, ok := d.langs[lang]
	if !ok {
		set = make(map[string]struct{}, len(words))
		d.langs[lang] = set
	}
	fold := wordFolder(lang)
	for _, w := range words {
		if w = fold(w); w != "" {
			set[w] = struct{}{}
		}
	}
}

// Len returns the number of words known for lang.
func (d *Dictionary) Len(lang string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.langs[baseLanguage(lang)])
}

func (d *Dictionary) IsRecognized(_ context.Context, word, language string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	set, ok := d.langs[baseLanguage(language)]
	if !ok {
		return false, ErrUnsupportedLanguage
	}
	_, ok = set[word]
	return ok, nil
}
