package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Client calls the API of a ledger node.
type Client struct {
	url  string
	http *retryablehttp.Client
}

// NewClient constructs a client for the node at the specified url. Mining
// is performed on the request, so the timeout is generous.
func NewClient(url string) *Client {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 0
	client.HTTPClient.Timeout = 10 * time.Minute

	return &Client{
		url:  url,
		http: client,
	}
}

// Do performs the request and returns the raw JSON document the node
// responded with. Any status other than 200 and 201 is an error.
func (c *Client) Do(ctx context.Context, method string, path string, payload any) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return data, nil
	default:
		return nil, fmt.Errorf("%s %s: status[%d]: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
}
