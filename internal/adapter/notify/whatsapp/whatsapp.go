// Package whatsapp sends text messages through an UltraMsg compatible instance API.
package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MikeRez0/trucksy/internal/adapter/config"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"go.uber.org/zap"
)

type Client struct {
	endpoint string
	token    string
	http     *http.Client
	logger   *zap.Logger
}

var _ port.TextSender = (*Client)(nil)

func NewClient(cfg *config.WhatsApp, logger *zap.Logger) *Client {
	c := &Client{
		token:  cfg.Token,
		http:   &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
	if cfg.Instance != "" && cfg.Token != "" {
		c.endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/" + url.PathEscape(cfg.Instance) + "/messages/chat"
	}
	return c
}

func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

type sendResponse struct {
	Sent    string `json:"sent"`
	Message string `json:"message"`
	Error   any    `json:"error"`
}

func (c *Client) SendText(ctx context.Context, phone string, text string) error {
	if !c.Enabled() {
		c.logger.Debug("whatsapp disabled, message dropped", zap.String("to", phone))
		return nil
	}

	form := url.Values{}
	form.Set("token", c.token)
	form.Set("to", normalizePhone(phone))
	form.Set("body", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("error creating whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("whatsapp response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whatsapp responded %d: %s", resp.StatusCode, body)
	}

	var res sendResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return fmt.Errorf("whatsapp response decode: %w", err)
	}
	if res.Error != nil || res.Sent != "true" {
		return fmt.Errorf("whatsapp rejected message: %s", body)
	}
	return nil
}

// normalizePhone keeps digits only, the instance API wants international format without '+'.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
