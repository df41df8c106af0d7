// Package compatapi talks to the remote game compatibility service.
package compatapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/mmcdole/gamelib/internal/domain"
	"github.com/tidwall/gjson"
)

const (
	// DefaultEndpoint is the public compatibility endpoint.
	DefaultEndpoint = "https://api.gamenative.app/api/game-runs"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// Options configures a Client.
type Options struct {
	Endpoint string
	Timeout  time.Duration
	RetryMax int
}

// Client implements domain.CompatClient over HTTP.
type Client struct {
	endpoint string
	http     *retryablehttp.Client
	logger   *slog.Logger
}

type request struct {
	GameNames []string `json:"gameNames"`
	GPUName   string   `json:"gpuName"`
}

// New creates a client.
func New(opts Options, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = max(opts.RetryMax, 0)
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = opts.Timeout
	rc.Logger = logger.With("component", "compatapi")

	return &Client{endpoint: opts.Endpoint, http: rc, logger: logger}
}

// FetchCompatibility posts one batch of names. The response is an object
// keyed by game name; entries that are not objects are skipped.
func (c *Client) FetchCompatibility(ctx context.Context, names []string, identity string) (map[string]domain.CompatReport, error) {
	if len(names) == 0 {
		return map[string]domain.CompatReport{}, nil
	}

	body, err := json.Marshal(request{GameNames: names, GPUName: identity})
	if err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBatchFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrBatchFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrBatchFailed, resp.StatusCode)
	}

	return parseReports(data)
}

func parseReports(data []byte) (map[string]domain.CompatReport, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON response", domain.ErrBatchFailed)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: response is not an object", domain.ErrBatchFailed)
	}

	out := make(map[string]domain.CompatReport)
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		name := key.String()
		out[name] = domain.CompatReport{
			GameName:           name,
			TotalPlayableCount: int(value.Get("totalPlayableCount").Int()),
			GPUPlayableCount:   int(value.Get("gpuPlayableCount").Int()),
			AvgRating:          value.Get("avgRating").Float(),
			HasBeenTried:       value.Get("hasBeenTried").Bool(),
			IsNotWorking:       value.Get("isNotWorking").Bool(),
		}
		return true
	})
	return out, nil
}
