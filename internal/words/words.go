// internal/words/words.go
//
// Root-word pool providers.
//
// Responsibilities:
//   - Supply the pool of candidate root words from the embedded list, a file,
//     or a URL.
//   - Pick a source from the environment (FromEnv).
//   - Report failures as *LoadError so hosts can treat them as fatal.
//
// Sources, in FromEnv priority order:
//   1. WORDS_START_URL=https://example.com/start.txt
//   2. WORDS_START_FILE=/path/to/start.txt
//   3. WORDS_START=airplane,baseball,calendar (inline, comma separated)
//   4. embedded assets/start.txt
//
// Lines are trimmed; blank lines and "#" comments are dropped. Case is left
// alone: the rule engine lower-cases the root it picks.

package words

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/robalobadob/wordscramble/assets"
)

// Provider loads the root-word pool.
type Provider interface {
	Load(ctx context.Context) ([]string, error)
	// Source names where the words come from (for logs and errors).
	Source() string
}

// ErrEmpty means a source loaded fine but held no words.
var ErrEmpty = errors.New("words: list is empty")

// LoadError reports a pool that could not be loaded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string { return fmt.Sprintf("words: load %s: %v", e.Source, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// Load runs p and enforces a non-empty result.
// Every failure comes back as *LoadError.
func Load(ctx context.Context, p Provider) ([]string, error) {
	list, err := p.Load(ctx)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, err
		}
		return nil, &LoadError{Source: p.Source(), Err: err}
	}
	if len(list) == 0 {
		return nil, &LoadError{Source: p.Source(), Err: ErrEmpty}
	}
	return list, nil
}

// FromEnv picks a provider from WORDS_START_URL / WORDS_START_FILE /
// WORDS_START, falling back to the embedded list.
func FromEnv() Provider {
	if u := os.Getenv("WORDS_START_URL"); u != "" {
		return HTTP(u, nil)
	}
	if p := os.Getenv("WORDS_START_FILE"); p != "" {
		return File(p)
	}
	if list := splitInline(os.Getenv("WORDS_START")); len(list) > 0 {
		return Static(list)
	}
	return Embedded()
}

func splitInline(v string) []string {
	var out []string
	for _, w := range strings.Split(v, ",") {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// --- embedded ---

type embedded struct{}

// Embedded serves the bundled assets/start.txt.
func Embedded() Provider { return embedded{} }

func (embedded) Source() string { return "embedded:start.txt" }

func (embedded) Load(context.Context) ([]string, error) { return assets.StartList() }

// --- file ---

type file struct{ path string }

// File reads one word per line from path.
func File(path string) Provider { return file{path: path} }

func (f file) Source() string { return "file:" + f.path }

func (f file) Load(context.Context) ([]string, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return assets.ReadLines(fh)
}

// --- http ---

type remote struct {
	url    string
	client *http.Client
}

// HTTP fetches a newline-separated list from url.
// A nil client gets a 10s timeout.
func HTTP(url string, client *http.Client) Provider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return remote{url: url, client: client}
}

func (r remote) Source() string { return r.url }

func (r remote) Load(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return assets.ReadLines(resp.Body)
}

// Static serves a fixed list, e.g. the inline WORDS_START value.
type Static []string

func (s Static) Source() string { return "static" }

func (s Static) Load(context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}
