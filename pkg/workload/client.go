package workload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrRequestFailed marks a transport error or non-success status on either channel.
var ErrRequestFailed = errors.New("request failed")

const defaultRequestTimeout = 30 * time.Second

// Transaction is one keyed record written through the data channel.
type Transaction struct {
	Key   string `json:"key"`
	Value int    `json:"value"`
}

type startRequest struct {
	TestMode Mode `json:"test_mode"`
}

// Client talks to the workload's control and data channels.
type Client struct {
	controlURL string
	dataURL    string
	http       *http.Client
}

func NewClient(controlURL, dataURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Client{
		controlURL: strings.TrimRight(controlURL, "/"),
		dataURL:    strings.TrimRight(dataURL, "/"),
		http:       httpClient,
	}
}

// BaseURL formats the address of a node port.
func BaseURL(host string, port int32) string {
	return fmt.Sprintf("http://%s:%d", host, port)
}

func (c *Client) Start(ctx context.Context, mode Mode) error {
	return c.do(ctx, http.MethodPost, c.controlURL+"/start", startRequest{TestMode: mode})
}

func (c *Client) Stop(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.controlURL+"/stop", nil)
}

// Transaction sends a single object for one record and an array otherwise.
func (c *Client) Transaction(ctx context.Context, records []Transaction) error {
	if len(records) == 1 {
		return c.do(ctx, http.MethodPost, c.dataURL+"/transaction", records[0])
	}
	return c.do(ctx, http.MethodPost, c.dataURL+"/transaction", records)
}

func (c *Client) do(ctx context.Context, method, url string, body any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, url, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, url, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s: status %d", ErrRequestFailed, method, url, resp.StatusCode)
	}
	return nil
}
