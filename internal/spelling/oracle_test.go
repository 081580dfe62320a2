package spelling_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordscramble/internal/spelling"
)

func TestAlwaysTrue(t *testing.T) {
	ok, err := spelling.AlwaysTrue{}.IsRecognized(context.Background(), "zzzz", "xx")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDictionary(t *testing.T) {
	d := spelling.NewDictionary("en", []string{"Silk", " worm ", ""})
	ctx := context.Background()

	ok, err := d.IsRecognized(ctx, "silk", "en")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.IsRecognized(ctx, "worm", "en-US")
	require.NoError(t, err)
	assert.True(t, ok, "regional tags use the base language")

	ok, err = d.IsRecognized(ctx, "milk", "en")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = d.IsRecognized(ctx, "silk", "fr")
	require.ErrorIs(t, err, spelling.ErrUnsupportedLanguage)

	assert.Equal(t, 2, d.Len("en"))
	d.Add("fr", "soie")
	assert.Equal(t, 1, d.Len("fr"))
}

func TestDictionary_LanguageCasing(t *testing.T) {
	ctx := context.Background()
	d := spelling.NewDictionary("tr", []string{"KITAP", "İSTANBUL"})

	for _, w := range []string{"k\u0131tap", "istanbul"} {
		ok, err := d.IsRecognized(ctx, w, "tr")
		require.NoError(t, err)
		assert.True(t, ok, w)
	}
	ok, err := d.IsRecognized(ctx, "kitap", "tr")
	require.NoError(t, err)
	assert.False(t, ok, "dotless I folds to \u0131 in Turkish")
}

func TestLoadDictionary(t *testing.T) {
	d, err := spelling.LoadDictionary("en", strings.NewReader("# words\ncat\n\ndog\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len("en"))
}

func TestEmbeddedDictionary(t *testing.T) {
	d, err := spelling.EmbeddedDictionary()
	require.NoError(t, err)
	assert.Greater(t, d.Len("en"), 100)

	for _, w := range []string{"silk", "worm", "silkworm"} {
		ok, err := d.IsRecognized(context.Background(), w, "en")
		require.NoError(t, err)
		assert.True(t, ok, w)
	}
}

func TestEmbeddedDictionary_Coverage(t *testing.T) {
	d, err := spelling.EmbeddedDictionary()
	require.NoError(t, err)
	assert.Greater(t, d.Len("en"), 50000)

	// Everyday words spelled from bundled root words.
	common := map[string][]string{
		"silkworm": {"rows", "owl", "lows", "mows", "irk", "skim", "wok", "milk", "work", "slim"},
		"airplane": {"plain", "rain", "pier", "panel", "alpine", "pale"},
		"baseball": {"ball", "sale", "label", "seal", "able"},
	}
	for root, words := range common {
		for _, w := range words {
			ok, err := d.IsRecognized(context.Background(), w, "en")
			require.NoError(t, err)
			assert.True(t, ok, "%s from %s", w, root)
		}
	}
}

func TestCached(t *testing.T) {
	var calls atomic.Int32
	fail := true
	next := spelling.OracleFunc(func(_ context.Context, word, _ string) (bool, error) {
		calls.Add(1)
		if word == "flaky" && fail {
			return false, errors.New("down")
		}
		return word == "cat" || word == "flaky", nil
	})
	c := spelling.NewCached(next)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := c.IsRecognized(ctx, "cat", "en")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = c.IsRecognized(ctx, "tac", "en-GB")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.EqualValues(t, 2, calls.Load(), "negative answers are cached too")

	_, err := c.IsRecognized(ctx, "flaky", "en")
	require.Error(t, err)
	fail = false
	ok, err := c.IsRecognized(ctx, "flaky", "en")
	require.NoError(t, err)
	assert.True(t, ok, "errors are not cached")
	assert.Equal(t, 3, c.Len())
}

func TestRemote(t *testing.T) {
	var gotPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.EscapedPath())
		switch {
		case strings.HasSuffix(r.URL.Path, "/cat"):
			_, _ = w.Write([]byte(`[{"word":"cat"}]`))
		case strings.HasSuffix(r.URL.Path, "/boom"):
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	r := spelling.NewRemote(srv.URL + "/")
	ctx := context.Background()

	ok, err := r.IsRecognized(ctx, "cat", "en-US")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/en/cat", gotPath.Load())

	ok, err = r.IsRecognized(ctx, "tac", "en")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = r.IsRecognized(ctx, "boom", "en")
	require.Error(t, err)

	_, err = r.IsRecognized(ctx, "a b", "en")
	require.NoError(t, err)
	assert.Equal(t, "/en/a%20b", gotPath.Load())
}

func TestRemote_DefaultURL(t *testing.T) {
	assert.Equal(t, spelling.DefaultRemoteURL, spelling.NewRemote("").BaseURL)
}

func TestSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dict.db")
	ctx := context.Background()

	db, err := spelling.OpenSQLite(path)
	require.NoError(t, err)

	n, err := db.Import(ctx, "en-US", []string{"Cat", "dog", "", "cat"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := db.Count(ctx, "en")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	ok, err := db.IsRecognized(ctx, "cat", "en")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = db.IsRecognized(ctx, "cow", "en")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = db.IsRecognized(ctx, "cat", "fr")
	require.ErrorIs(t, err, spelling.ErrUnsupportedLanguage)
	require.NoError(t, db.Close())

	// Reopening re-runs migrations as no-ops and keeps the data.
	db, err = spelling.OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()
	count, err = db.Count(ctx, "en")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("local embedded", func(t *testing.T) {
		o, closeFn, err := spelling.Open(ctx, spelling.Settings{Backend: spelling.BackendLocal})
		require.NoError(t, err)
		defer closeFn()
		ok, err := o.IsRecognized(ctx, "silk", "en")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("bundled list is English only", func(t *testing.T) {
		o, _, err := spelling.Open(ctx, spelling.Settings{Backend: spelling.BackendLocal, Language: "fr"})
		require.NoError(t, err)
		_, err = o.IsRecognized(ctx, "silk", "fr")
		require.ErrorIs(t, err, spelling.ErrUnsupportedLanguage)
	})

	t.Run("local file for another language", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fr.txt")
		require.NoError(t, os.WriteFile(path, []byte("soie\nver\n"), 0o644))
		o, _, err := spelling.Open(ctx, spelling.Settings{Backend: spelling.BackendLocal, Language: "fr", DictionaryFile: path})
		require.NoError(t, err)
		ok, err := o.IsRecognized(ctx, "soie", "fr-FR")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("local missing file", func(t *testing.T) {
		_, closeFn, err := spelling.Open(ctx, spelling.Settings{Backend: spelling.BackendLocal, DictionaryFile: "/nope/words.txt"})
		require.Error(t, err)
		require.NotNil(t, closeFn)
	})

	t.Run("sqlite seeds empty table", func(t *testing.T) {
		o, closeFn, err := spelling.Open(ctx, spelling.Settings{
			Backend:      spelling.BackendSQLite,
			DictionaryDB: filepath.Join(t.TempDir(), "dict.db"),
		})
		require.NoError(t, err)
		defer closeFn()
		ok, err := o.IsRecognized(ctx, "worm", "en")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("sqlite seeds bundled list under en only", func(t *testing.T) {
		o, closeFn, err := spelling.Open(ctx, spelling.Settings{
			Backend:      spelling.BackendSQLite,
			Language:     "de",
			DictionaryDB: filepath.Join(t.TempDir(), "dict.db"),
		})
		require.NoError(t, err)
		defer closeFn()
		_, err = o.IsRecognized(ctx, "worm", "de")
		require.ErrorIs(t, err, spelling.ErrUnsupportedLanguage)
		ok, err := o.IsRecognized(ctx, "worm", "en")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("remote is cached", func(t *testing.T) {
		o, closeFn, err := spelling.Open(ctx, spelling.Settings{Backend: spelling.BackendRemote, DictionaryURL: "http://127.0.0.1:1"})
		require.NoError(t, err)
		defer closeFn()
		assert.IsType(t, &spelling.Cached{}, o)
	})

	t.Run("always", func(t *testing.T) {
		o, _, err := spelling.Open(ctx, spelling.Settings{Backend: spelling.BackendAlways})
		require.NoError(t, err)
		assert.Equal(t, spelling.AlwaysTrue{}, o)
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := spelling.Open(ctx, spelling.Settings{Backend: "oracle-of-delphi"})
		require.Error(t, err)
	})
}
