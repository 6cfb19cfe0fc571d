package membership

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"bpd/pkg/platform/sentinel"
)

// DirectoryConfig identifies the service principal used to query the
// directory.
type DirectoryConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// GraphDirectory lists a user's group names through the directory's
// memberOf endpoint, authenticating with client credentials.
type GraphDirectory struct {
	client  *http.Client
	baseURL string
}

// NewGraphDirectory builds a directory client. The OAuth token is fetched
// lazily and refreshed by the transport.
func NewGraphDirectory(ctx context.Context, cfg DirectoryConfig) *GraphDirectory {
	base := strings.TrimRight(cfg.BaseURL, "/")
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       []string{base + "/.default"},
	}
	client := cc.Client(ctx)
	if cfg.Timeout > 0 {
		client.Timeout = cfg.Timeout
	}
	return &GraphDirectory{client: client, baseURL: base}
}

// NewGraphDirectoryWithClient uses a preconfigured HTTP client.
func NewGraphDirectoryWithClient(client *http.Client, baseURL string) *GraphDirectory {
	return &GraphDirectory{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

type memberOfPage struct {
	Value []struct {
		DisplayName string `json:"displayName"`
	} `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

// maxPages bounds pagination against a misbehaving directory.
const maxPages = 20

// GroupNames returns the display names of the groups subject belongs to.
// Returns sentinel.ErrNotFound when the directory does not know subject.
// Next links are followed only under the configured base URL, since the
// client carries the directory bearer token.
func (d *GraphDirectory) GroupNames(ctx context.Context, subject string) ([]string, error) {
	next := fmt.Sprintf("%s/v1.0/users/%s/memberOf?$select=displayName", d.baseURL, url.PathEscape(subject))

	var names []string
	for page := 0; next != "" && page < maxPages; page++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, fmt.Errorf("build memberOf request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("memberOf request: %w", err)
		}
		body, err := decodePage(resp)
		if err != nil {
			return nil, err
		}
		for _, g := range body.Value {
			names = append(names, g.DisplayName)
		}
		next = body.NextLink
		if next != "" && !strings.HasPrefix(next, d.baseURL+"/") {
			return nil, fmt.Errorf("memberOf next link outside %s", d.baseURL)
		}
	}
	return names, nil
}

func decodePage(resp *http.Response) (*memberOfPage, error) {
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("directory user: %w", sentinel.ErrNotFound)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("directory status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("directory status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	var page memberOfPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode memberOf response: %w", err)
	}
	return &page, nil
}
