package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/bracketforge/notify/pkg/logger"
)

const (
	sendPath     = "/--/api/v2/push/send"
	receiptsPath = "/--/api/v2/push/getReceipts"
)

// Client talks to an Expo-protocol push gateway: it batches outbound
// messages, parses synchronous send tickets, and polls asynchronous delivery
// receipts by ticket id.
//
// The client is transport-pure: it classifies failures but never touches the
// device token registry. Reconciliation belongs to the notifier engine.
type Client struct {
	baseURL          string
	accessToken      string
	sendBatchSize    int
	receiptBatchSize int
	requestTimeout   time.Duration
	httpClient       *http.Client
	logger           *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default pooled HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClientLogger sets the logger for the Client.
func WithClientLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = log
	}
}

// NewClient creates a push gateway client from config.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("%w: GatewayURL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(cfg.GatewayURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: GatewayURL must be an http(s) URL", ErrInvalidConfig)
	}
	if cfg.SendBatchSize <= 0 {
		cfg.SendBatchSize = 100
	}
	if cfg.ReceiptBatchSize <= 0 {
		cfg.ReceiptBatchSize = 300
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	c := &Client{
		baseURL:          u.String(),
		accessToken:      cfg.AccessToken,
		sendBatchSize:    cfg.SendBatchSize,
		receiptBatchSize: cfg.ReceiptBatchSize,
		requestTimeout:   cfg.RequestTimeout,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendBatch dispatches the messages in gateway-sized chunks, preserving the
// token-to-ticket association across chunk boundaries.
//
// Chunks are sent sequentially to respect the gateway's rate limits. A chunk
// failure does not abort the call: tickets from completed chunks are returned
// alongside ErrPartialSend so the caller can still reconcile partial
// progress. An unresponsive gateway therefore never erases work already done.
func (c *Client) SendBatch(ctx context.Context, messages []Message) ([]TicketResult, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	results := make([]TicketResult, 0, len(messages))
	var chunkErrs []error

	for start := 0; start < len(messages); start += c.sendBatchSize {
		end := min(start+c.sendBatchSize, len(messages))
		chunk := messages[start:end]

		tickets, err := c.sendChunk(ctx, chunk)
		if err != nil {
			chunkErrs = append(chunkErrs, err)
			c.logger.LogAttrs(ctx, slog.LevelWarn, "push chunk failed",
				slog.Int("chunk_start", start),
				slog.Int("chunk_size", len(chunk)),
				logger.Error(err),
			)
			// Context cancellation dooms every remaining chunk; stop early.
			if ctx.Err() != nil {
				break
			}
			continue
		}

		for i, ticket := range tickets {
			results = append(results, TicketResult{Token: chunk[i].To, Ticket: ticket})
		}
	}

	if len(chunkErrs) > 0 {
		return results, errors.Join(ErrPartialSend, errors.Join(chunkErrs...))
	}
	return results, nil
}

// Receipts fetches delivery receipts for the given ticket ids, keyed by
// ticket id. Missing receipts (not yet available on the gateway) are simply
// absent from the result.
func (c *Client) Receipts(ctx context.Context, ticketIDs []string) (map[string]Receipt, error) {
	if len(ticketIDs) == 0 {
		return nil, nil
	}

	out := make(map[string]Receipt, len(ticketIDs))
	for start := 0; start < len(ticketIDs); start += c.receiptBatchSize {
		end := min(start+c.receiptBatchSize, len(ticketIDs))

		var resp struct {
			Data map[string]Receipt `json:"data"`
		}
		if err := c.post(ctx, receiptsPath, map[string]any{"ids": ticketIDs[start:end]}, &resp); err != nil {
			return out, err
		}
		for id, receipt := range resp.Data {
			out[id] = receipt
		}
	}
	return out, nil
}

func (c *Client) sendChunk(ctx context.Context, chunk []Message) ([]Ticket, error) {
	var resp struct {
		Data []Ticket `json:"data"`
	}
	if err := c.post(ctx, sendPath, chunk, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) != len(chunk) {
		return nil, fmt.Errorf("%w: got %d tickets for %d messages", ErrTicketCountMismatch, len(resp.Data), len(chunk))
	}
	return resp.Data, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Join(ErrGatewayRequestFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Join(ErrGatewayRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Join(ErrGatewayRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a bounded slice of the body for diagnostics only.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrGatewayRequestFailed, resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrGatewayRequestFailed, err)
	}
	return nil
}
