package state

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultChainURL is the format of the url used to retrieve the chain of a
// peer. The peer host replaces the verb.
const DefaultChainURL = "http://%s/v1/get_chain"

// maxErrorBody limits how much of a failed response is kept for the error.
const maxErrorBody = 512

// =============================================================================

// ChainResponse is the document a node returns for its chain. Peers use the
// same document to exchange chains.
type ChainResponse struct {
	Chain  []database.Block `json:"chain"`
	Length int              `json:"length"`
}

// ChainFetcher represents the behavior required to retrieve the chain of
// a peer.
type ChainFetcher interface {
	FetchChain(ctx context.Context, pr peer.Peer) (ChainResponse, error)
}

// =============================================================================

// fetcherConfig holds the settings for the http client.
type fetcherConfig struct {
	timeout      time.Duration
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// FetcherOption defines a functional option for configuring the HTTPFetcher.
type FetcherOption func(*fetcherConfig)

// WithTimeout sets the maximum duration allowed for a single request.
// Default: 10 seconds.
func WithTimeout(d time.Duration) FetcherOption {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithRetryMax sets the number of retries after a failed request.
// Default: 0, a failed peer is skipped on the first failure.
func WithRetryMax(n int) FetcherOption {
	return func(c *fetcherConfig) {
		c.retryMax = n
	}
}

// WithRetryWait sets the bounds of the backoff between retries.
// Default: 100ms to 1s.
func WithRetryWait(minWait time.Duration, maxWait time.Duration) FetcherOption {
	return func(c *fetcherConfig) {
		c.retryWaitMin = minWait
		c.retryWaitMax = maxWait
	}
}

// HTTPFetcher retrieves the chain of a peer over HTTP.
type HTTPFetcher struct {
	client   *retryablehttp.Client
	chainURL string
}

// Compile-time check HTTPFetcher implements ChainFetcher.
var _ ChainFetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher constructs a fetcher for the specified url format.
func NewHTTPFetcher(chainURL string, opts ...FetcherOption) *HTTPFetcher {
	cfg := fetcherConfig{
		timeout:      10 * time.Second,
		retryMax:     0,
		retryWaitMin: 100 * time.Millisecond,
		retryWaitMax: time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.HTTPClient.Timeout = cfg.timeout
	client.RetryMax = cfg.retryMax
	client.RetryWaitMin = cfg.retryWaitMin
	client.RetryWaitMax = cfg.retryWaitMax

	return &HTTPFetcher{
		client:   client,
		chainURL: chainURL,
	}
}

// FetchChain retrieves the chain of the specified peer. Any transport failure
// or non 200 response is reported as ErrPeerUnreachable.
func (f *HTTPFetcher) FetchChain(ctx context.Context, pr peer.Peer) (ChainResponse, error) {
	url := fmt.Sprintf(f.chainURL, pr.Host)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ChainResponse{}, fmt.Errorf("%w: %s: %w", ErrPeerUnreachable, pr, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return ChainResponse{}, fmt.Errorf("%w: %s: %w", ErrPeerUnreachable, pr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return ChainResponse{}, fmt.Errorf("%w: %s: status %d: %s", ErrPeerUnreachable, pr, resp.StatusCode, msg)
	}

	var cr ChainResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return ChainResponse{}, fmt.Errorf("%w: %s: decoding: %w", ErrPeerUnreachable, pr, err)
	}

	return cr, nil
}
