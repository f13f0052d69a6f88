package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jacket-survey/internal/domain"
	"jacket-survey/internal/metrics"
	"jacket-survey/internal/normalize"
)

// Operation names exposed by the member service.
const (
	OpGetMember      = "GetMemberByCode"
	OpSearchMembers  = "SearchMembers"
	OpSaveSize       = "SaveShirtSize"
	OpConfirmReceive = "ConfirmReceive"
	OpGetInventory   = "GetShirtInventory"
)

const maxResponseBytes = 10 << 20

// Config configures the member service client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// Retries applies to read operations only.
	Retries int
	Backoff time.Duration
}

// Client talks to the WCF-style JSON member service. It is the only place raw
// payloads are seen: every method returns canonical records.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	logger     *log.Logger
	metrics    *metrics.Metrics
}

// RejectedError is returned when the service answers a write with a failure flag.
type RejectedError struct {
	Operation string
	Message   string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s rejected by member service", e.Operation)
	}
	return fmt.Sprintf("%s rejected by member service: %s", e.Operation, e.Message)
}

func (e *RejectedError) Unwrap() error {
	return domain.ErrInvalidArgument
}

// New builds a Client. A nil logger discards output; nil metrics record nothing.
func New(cfg Config, logger *log.Logger, m *metrics.Metrics) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
		retries: retries,
		backoff: backoff,
		logger:  logger,
		metrics: m,
	}
}

// GetMember fetches one member. A member the service does not know yields
// (nil, nil).
func (c *Client) GetMember(ctx context.Context, code string) (*domain.MemberRecord, error) {
	v, err := c.call(ctx, OpGetMember, map[string]any{normalize.KeyMemberCode: code}, true)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return normalize.NormalizeMember(normalize.RawMember(t)), nil
	case []any:
		list := normalize.NormalizeMemberList(t)
		if len(list) == 0 {
			return nil, nil
		}
		return &list[0], nil
	default:
		c.logger.Printf("upstream: %s returned unexpected payload type %T for member %s", OpGetMember, v, code)
		return nil, nil
	}
}

// SearchMembers runs a keyword search; an empty keyword lists everyone.
func (c *Client) SearchMembers(ctx context.Context, keyword string) ([]domain.MemberRecord, error) {
	v, err := c.call(ctx, OpSearchMembers, map[string]any{"KEYWORD": keyword}, true)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.MemberRecord{}, nil
		}
		return nil, err
	}
	return normalize.NormalizeMemberList(v), nil
}

// SaveSize records a confirmed size for a member.
func (c *Client) SaveSize(ctx context.Context, code string, size domain.SizeCode, method, staff string) error {
	v, err := c.call(ctx, OpSaveSize, map[string]any{
		normalize.KeyMemberCode:   code,
		normalize.KeySizeCode:     string(size),
		normalize.KeySurveyMethod: method,
		normalize.KeyProcessedBy:  staff,
	}, false)
	if err != nil {
		return err
	}
	return checkAck(OpSaveSize, v)
}

// ConfirmReceive marks a member's jacket as collected.
func (c *Client) ConfirmReceive(ctx context.Context, code string, p domain.Pickup, staff string) error {
	v, err := c.call(ctx, OpConfirmReceive, map[string]any{
		normalize.KeyMemberCode:   code,
		normalize.KeyReceiverType: p.ReceiverType,
		normalize.KeyReceiverName: p.ReceiverName,
		normalize.KeyRemarks:      p.Remarks,
		normalize.KeyProcessedBy:  staff,
	}, false)
	if err != nil {
		return err
	}
	return checkAck(OpConfirmReceive, v)
}

// GetInventory returns stock per size.
func (c *Client) GetInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	v, err := c.call(ctx, OpGetInventory, map[string]any{}, true)
	if err != nil {
		return nil, err
	}
	return normalize.NormalizeInventory(v), nil
}

func (c *Client) call(ctx context.Context, op string, body any, idempotent bool) (any, error) {
	attempts := 1
	if idempotent {
		attempts += c.retries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := c.do(ctx, op, body)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrUpstreamUnavailable) || attempt == attempts {
			break
		}
		c.logger.Printf("upstream: %s attempt %d/%d failed: %v", op, attempt, attempts, err)
		if err := c.wait(ctx, time.Duration(attempt)*c.backoff); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// wait sleeps for d unless ctx ends first.
func (c *Client) wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Client) do(ctx context.Context, op string, body any) (any, error) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		c.metrics.ObserveUpstream(op, outcome, time.Since(start))
	}()

	if c.baseURL == "" {
		outcome = "error"
		return nil, fmt.Errorf("%s: member service URL not configured: %w", op, domain.ErrUpstreamUnavailable)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	endpoint, err := url.JoinPath(c.baseURL, op)
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("%s: build url: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = "error"
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%s: %v: %w", op, err, domain.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("%s: read response: %v: %w", op, err, domain.ErrUpstreamUnavailable)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		outcome = "not_found"
		return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		outcome = "rejected"
		return nil, &RejectedError{Operation: op, Message: strings.TrimSpace(string(data))}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		outcome = "error"
		return nil, fmt.Errorf("%s: status %d: %w", op, resp.StatusCode, domain.ErrUpstreamUnavailable)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	v, err := normalize.Decode(data)
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("%s: decode response: %v: %w", op, err, domain.ErrUpstreamUnavailable)
	}
	return v, nil
}

// checkAck interprets write acknowledgements: null, true, or an object with a
// SUCCESS flag and optional MESSAGE.
func checkAck(op string, v any) error {
	switch t := v.(type) {
	case nil:
		return nil
	case bool:
		if !t {
			return &RejectedError{Operation: op}
		}
		return nil
	case json.Number:
		if t.String() == "0" {
			return &RejectedError{Operation: op}
		}
		return nil
	case map[string]any:
		ok, present := successFlag(t)
		if present && !ok {
			msg := ""
			for _, k := range []string{"MESSAGE", "message", "Message"} {
				if s, isStr := t[k].(string); isStr {
					msg = s
					break
				}
			}
			return &RejectedError{Operation: op, Message: msg}
		}
		return nil
	}
	return nil
}

func successFlag(m map[string]any) (ok, present bool) {
	for _, k := range []string{"SUCCESS", "success", "Success"} {
		switch v := m[k].(type) {
		case bool:
			return v, true
		case string:
			return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "Y"), true
		case json.Number:
			return v.String() != "0", true
		}
	}
	return false, false
}
