// internal/game/engine.go
//
// Rule engine for a single word scramble session.
// Responsibilities:
//   - Start sessions by picking a root word from a pool (fallback if unusable).
//   - Validate candidates against the fixed rule order:
//       empty → too short → same as root → already used → not possible → not a word.
//   - Keep the accepted words (most recent first) and a running score.
//
// Notes:
//   - Letters are grapheme clusters, not bytes or runes.
//   - StartSession and Validate are mutually exclusive; Validate holds the lock
//     across the oracle call so a restart can never interleave with it.
//   - Oracle failures are errors (ErrOracleUnavailable), not NotAWord.
package game

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/rivo/uniseg"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/robalobadob/wordscramble/internal/spelling"
)

const (
	// MinLength is the shortest acceptable candidate, in letters.
	MinLength = 3

	defaultLanguage      = "en"
	defaultOracleTimeout = 3 * time.Second
)

// Picker chooses an index in [0, n). n is always > 0.
type Picker interface {
	Pick(n int) int
}

// PickerFunc adapts a plain function to Picker.
type PickerFunc func(n int) int

func (f PickerFunc) Pick(n int) int { return f(n) }

// cryptoPicker picks uniformly using crypto/rand.
type cryptoPicker struct{}

func (cryptoPicker) Pick(n int) int {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguage sets the language tag used for lower-casing and oracle lookups.
func WithLanguage(lang string) Option {
	return func(e *Engine) {
		if lang = strings.TrimSpace(lang); lang != "" {
			e.lang = lang
			e.tag = language.Make(lang)
		}
	}
}

// WithPicker replaces the uniform random root-word picker.
func WithPicker(p Picker) Option {
	return func(e *Engine) {
		if p != nil {
			e.picker = p
		}
	}
}

// WithOracleTimeout bounds each oracle call. Zero or negative disables the bound.
func WithOracleTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithLogger attaches a logger; decisions are logged at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// session is the mutable state of one game. Replaced wholesale on restart.
type session struct {
	root  string
	used  []string            // most recent first
	seen  map[string]struct{} // same contents as used
	score int                 // running sum of letters+1 per used word
}

// Engine owns at most one active session.
type Engine struct {
	mu      sync.Mutex
	oracle  spelling.Oracle
	picker  Picker
	lang    string
	tag     language.Tag
	timeout time.Duration
	log     zerolog.Logger
	sess    *session // nil until StartSession
}

// New constructs an engine with no active session.
func New(oracle spelling.Oracle, opts ...Option) *Engine {
	e := &Engine{
		oracle:  oracle,
		picker:  cryptoPicker{},
		lang:    defaultLanguage,
		tag:     language.English,
		timeout: defaultOracleTimeout,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Language returns the configured language tag.
func (e *Engine) Language() string { return e.lang }

// StartSession picks a new root word and clears the used words.
// Blank pool entries are ignored; if none remain, fallback is used.
func (e *Engine) StartSession(pool []string, fallback string) string {
	return e.StartSessionWith(e.picker, pool, fallback)
}

// StartSessionWith is StartSession with a one-off picker (e.g. the daily word).
func (e *Engine) StartSessionWith(p Picker, pool []string, fallback string) string {
	if p == nil {
		p = e.picker
	}
	candidates := make([]string, 0, len(pool))
	for _, w := range pool {
		if w = strings.TrimSpace(w); w != "" {
			candidates = append(candidates, w)
		}
	}

	root := strings.TrimSpace(fallback)
	if n := len(candidates); n > 0 {
		i := p.Pick(n)
		if i < 0 || i >= n {
			i = ((i % n) + n) % n
		}
		root = candidates[i]
	}
	root = e.lower(root)

	next := &session{root: root, used: []string{}, seen: make(map[string]struct{})}

	e.mu.Lock()
	e.sess = next
	e.mu.Unlock()

	e.log.Debug().Str("root", root).Int("pool", len(candidates)).Msg("session started")
	return root
}

// Validate normalizes raw, applies the rules in order and, if every rule
// passes, records the word at the front of the used list.
//
// Errors are reserved for caller/environment problems: ErrNoSession and
// ErrOracleUnavailable. In both cases the session is left untouched.
func (e *Engine) Validate(ctx context.Context, raw string) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validate(ctx, raw)
}

// ValidateSnapshot is Validate plus the session state right after it, read
// in the same critical section. A concurrent StartSession cannot land between
// the two, so an Accepted result always comes with a snapshot holding the word.
func (e *Engine) ValidateSnapshot(ctx context.Context, raw string) (Result, Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	res, err := e.validate(ctx, raw)
	return res, e.snapshot(), err
}

// validate does the work of Validate. Caller holds e.mu.
func (e *Engine) validate(ctx context.Context, raw string) (Result, error) {
	if e.sess == nil {
		return Result{}, ErrNoSession
	}

	word := e.lower(strings.TrimSpace(raw))
	res := Result{Kind: e.check(word), Word: word}
	if res.Kind != "" {
		e.log.Debug().Str("word", word).Str("kind", string(res.Kind)).Msg("candidate rejected")
		return res, nil
	}

	ok, err := e.recognized(ctx, word)
	if err != nil {
		e.log.Warn().Err(err).Str("word", word).Str("lang", e.lang).Msg("oracle failed")
		return Result{Word: word}, fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}
	if !ok {
		res.Kind = NotAWord
		e.log.Debug().Str("word", word).Str("kind", string(res.Kind)).Msg("candidate rejected")
		return res, nil
	}

	s := e.sess
	s.used = append([]string{word}, s.used...)
	s.seen[word] = struct{}{}
	s.score += Length(word) + 1

	res.Kind = Accepted
	e.log.Debug().Str("word", word).Int("score", s.score).Msg("candidate accepted")
	return res, nil
}

// check runs the local rules (everything except the oracle).
// Returns "" when the candidate should go on to the oracle.
// Caller holds e.mu.
func (e *Engine) check(word string) Kind {
	s := e.sess
	switch {
	case word == "":
		return NoOp
	case Length(word) < MinLength:
		return TooShort
	case word == s.root:
		return SameAsRoot
	}
	if _, dup := s.seen[word]; dup {
		return AlreadyUsed
	}
	if !IsPossible(word, s.root) {
		return NotPossible
	}
	return ""
}

// recognized asks the oracle, bounded by the engine timeout.
// An oracle that ignores ctx still cannot hold the engine past the deadline.
func (e *Engine) recognized(ctx context.Context, word string) (bool, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	type answer struct {
		ok  bool
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		ok, err := e.oracle.IsRecognized(ctx, word, e.lang)
		ch <- answer{ok, err}
	}()

	select {
	case a := <-ch:
		return a.ok, a.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Score returns the session score (0 with no session).
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return 0
	}
	return e.sess.score
}

// Snapshot returns a copy of the current session.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// snapshot copies the session. Caller holds e.mu.
func (e *Engine) snapshot() Snapshot {
	if e.sess == nil {
		return Snapshot{UsedWords: []string{}}
	}
	return Snapshot{
		Active:    true,
		RootWord:  e.sess.root,
		UsedWords: append([]string(nil), e.sess.used...),
		Score:     e.sess.score,
	}
}

// lower applies the engine's language-specific lower-casing.
// cases.Caser is stateful, so each call gets its own.
func (e *Engine) lower(s string) string {
	return cases.Lower(e.tag).String(s)
}

// ScoreOf recomputes a score from scratch: one point per letter plus one per word.
func ScoreOf(words []string) int {
	total := 0
	for _, w := range words {
		total += Length(w) + 1
	}
	return total
}

// Length counts letters as grapheme clusters.
func Length(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// IsPossible reports whether word can be spelled from the letters of root,
// using each letter of root at most as many times as it appears there.
//
// Works like a two-pass letter count:
//   - count every grapheme in root;
//   - consume one count per grapheme in word, failing on the first shortfall.
func IsPossible(word, root string) bool {
	counts := make(map[string]int)
	g := uniseg.NewGraphemes(root)
	for g.Next() {
		counts[g.Str()]++
	}

	g = uniseg.NewGraphemes(word)
	for g.Next() {
		c := g.Str()
		if counts[c] == 0 {
			return false
		}
		counts[c]--
	}
	return true
}
