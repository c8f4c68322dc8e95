package moyasar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MikeRez0/trucksy/internal/adapter/config"
	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"go.uber.org/zap"
)

type Client struct {
	logger  *zap.Logger
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ port.PaymentGateway = (*Client)(nil)

func NewClient(cfg *config.Gateway, log *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gateway api key is empty")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("bad gateway url %q: %w", cfg.BaseURL, err)
	}
	return &Client{
		logger:  log,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Charge creates a card payment. The raw response is kept because it carries the
// transaction url the client follows for 3-D Secure.
func (c *Client) Charge(ctx context.Context, req *port.ChargeRequest) (*port.ChargeResponse, error) {
	form := url.Values{}
	form.Set("source[type]", "card")
	form.Set("source[name]", req.Card.Name)
	form.Set("source[number]", req.Card.Number)
	form.Set("source[cvc]", req.Card.CVC)
	form.Set("source[month]", req.Card.Month)
	form.Set("source[year]", req.Card.Year)
	form.Set("amount", strconv.FormatInt(req.AmountMinor, 10))
	form.Set("currency", req.Currency)
	form.Set("callback_url", req.CallbackURL)
	if req.Description != "" {
		form.Set("description", req.Description)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.status < 200 || resp.status >= 300 {
		c.logger.Warn("gateway rejected charge",
			zap.Int("status", resp.status), zap.ByteString("body", truncate(resp.body)))
		return nil, fmt.Errorf("%w: charge responded %d", domain.ErrGatewayResponse, resp.status)
	}

	var res port.ChargeResponse
	if err := json.Unmarshal(resp.body, &res); err != nil {
		return nil, fmt.Errorf("%w: error on charge decode: %v", domain.ErrGatewayResponse, err)
	}
	if res.ID == "" {
		return nil, fmt.Errorf("%w: charge response without id", domain.ErrGatewayResponse)
	}
	res.Body = json.RawMessage(resp.body)

	c.logger.Debug("charge created", zap.String("payment", res.ID), zap.String("status", res.Status))
	return &res, nil
}

// Status fetches the gateway's record of a transaction. A throttled or failing
// gateway surfaces as ErrGatewayUnavailable; the caller decides whether to retry.
func (c *Client) Status(ctx context.Context, transactionID string) (*port.PaymentStatus, error) {
	if transactionID == "" {
		return nil, fmt.Errorf("%w: empty transaction id", domain.ErrGatewayResponse)
	}

	requestStr := c.baseURL + "/payments/" + url.PathEscape(transactionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestStr, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error on %s : %w", requestStr, err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	switch {
	case resp.status == http.StatusOK:
	case resp.status == http.StatusTooManyRequests || resp.status >= 500:
		c.logger.Warn("gateway unavailable for payment lookup",
			zap.String("payment", transactionID), zap.Int("status", resp.status),
			zap.Duration("RetryAfter", resp.retryAfter))
		return nil, fmt.Errorf("%w: lookup responded %d, Retry-After: %s",
			domain.ErrGatewayUnavailable, resp.status, resp.retryAfter)
	default:
		c.logger.Warn("unexpected status for payment lookup",
			zap.String("payment", transactionID), zap.Int("status", resp.status))
		return nil, fmt.Errorf("%w: lookup responded %d", domain.ErrGatewayResponse, resp.status)
	}

	var raw statusBody
	if err := json.Unmarshal(resp.body, &raw); err != nil {
		return nil, fmt.Errorf("%w: error on status decode: %v", domain.ErrGatewayResponse, err)
	}
	if raw.ID == "" || raw.Status == "" || raw.Amount == nil {
		c.logger.Warn("incomplete payment record",
			zap.String("payment", transactionID), zap.ByteString("body", truncate(resp.body)))
		return nil, fmt.Errorf("%w: payment record without id, status or amount", domain.ErrGatewayResponse)
	}
	return &port.PaymentStatus{
		ID:          raw.ID,
		Status:      raw.Status,
		AmountMinor: *raw.Amount,
		Currency:    raw.Currency,
	}, nil
}

// statusBody keeps amount optional so a missing field is told apart from zero.
type statusBody struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   *int64 `json:"amount"`
	Currency string `json:"currency"`
}

type response struct {
	body       []byte
	status     int
	retryAfter time.Duration
}

func (c *Client) do(req *http.Request) (*response, error) {
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGatewayUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrGatewayUnavailable, err)
	}

	res := &response{body: body, status: resp.StatusCode, retryAfter: time.Second}
	if sec, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && sec >= 0 {
		res.retryAfter = time.Duration(sec) * time.Second
	}
	return res, nil
}

func truncate(b []byte) []byte {
	const limit = 512
	if len(b) > limit {
		return append(bytes.Clone(b[:limit]), "..."...)
	}
	return b
}
