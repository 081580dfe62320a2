package spelling

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultRemoteURL is the free dictionaryapi.dev entries endpoint.
// Unknown words come back as 404.
const DefaultRemoteURL = "https://api.dictionaryapi.dev/api/v2/entries"

// Remote asks an HTTP dictionary: GET {BaseURL}/{lang}/{word}.
// 2xx means recognized, 404 means not, anything else is an error.
type Remote struct {
	BaseURL string
	Client  *http.Client
}

// NewRemote returns a Remote with a bounded HTTP client.
func NewRemote(baseURL string) *Remote {
	if baseURL == "" {
		baseURL = DefaultRemoteURL
	}
	return &Remote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (r *Remote) IsRecognized(ctx context.Context, word, language string) (bool, error) {
	u := r.BaseURL + "/" + url.PathEscape(baseLanguage(language)) + "/" + url.PathEscape(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("dictionary api: unexpected status %d", resp.StatusCode)
	}
}
