// Package network provides the node to node transport used to retrieve the
// chain held by a peer.
package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/validate"
)

// DefaultBaseURL is the url pattern used to reach a peer by host.
const DefaultBaseURL = "http://%s/v1"

// DefaultTimeout is the time allowed for a single request to a peer.
const DefaultTimeout = 5 * time.Second

// Client retrieves information from peers over HTTP. It implements the
// ledger.Fetcher interface.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures the client.
type Option func(c *Client)

// WithBaseURL changes the url pattern used to reach a peer. The pattern must
// carry a single %s for the host.
func WithBaseURL(pattern string) Option {
	return func(c *Client) {
		c.baseURL = pattern
	}
}

// WithTimeout changes the time allowed for a single request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// NewClient constructs a client for talking to peers.
func NewClient(opts ...Option) *Client {
	c := Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(&c)
	}

	return &c
}

// FetchChain asks the peer for its full chain. A payload that doesn't carry
// at least one block is rejected.
func (c *Client) FetchChain(ctx context.Context, pr peer.Peer) (ledger.Chain, error) {
	url := fmt.Sprintf("%s/chain", fmt.Sprintf(c.baseURL, pr.Host))

	var chain ledger.Chain
	if err := c.send(ctx, http.MethodGet, url, nil, &chain); err != nil {
		return ledger.Chain{}, fmt.Errorf("%s: %w", pr.Host, err)
	}

	if err := validate.Check(chain); err != nil {
		return ledger.Chain{}, fmt.Errorf("%s: malformed chain: %w", pr.Host, err)
	}

	return chain, nil
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func (c *Client) send(ctx context.Context, method string, url string, dataSend any, dataRecv any) error {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	if dataSend != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return fmt.Errorf("status %d: %w", resp.StatusCode, errors.New(string(bytes.TrimSpace(msg))))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
