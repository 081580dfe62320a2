// assets/embed.go
//
// Bundled resources compiled into the binary:
//   - start.txt:      root-word pool for new sessions.
//   - dictionary.txt: word list for the in-memory spelling oracle.
//   - sql/*.sql:      migrations for the sqlite dictionary.

package assets

import (
	"bufio"
	"embed"
	"io"
	"io/fs"
	"strings"
)

//go:embed start.txt dictionary.txt sql/*.sql
var FS embed.FS

// ReadLines splits r into lines, skipping blanks and "#" comments.
// Case is left untouched; callers normalize as they see fit.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadLines(f)
}

// StartList returns the bundled root-word pool.
func StartList() ([]string, error) {
	return readLines("start.txt")
}

// DictionaryList returns the bundled dictionary words.
func DictionaryList() ([]string, error) {
	return readLines("dictionary.txt")
}

// Migrations exposes the embedded sql directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(FS, "sql")
	if err != nil {
		// sql/ is embedded at compile time; Sub only fails on a bad path.
		panic(err)
	}
	return sub
}
