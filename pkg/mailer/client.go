package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kimocks-netizen/caro-backend/pkg/config"
	pkgerrors "github.com/kimocks-netizen/caro-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 1024

// FailureMode controls how callers treat a delivery failure.
type FailureMode int

const (
	// FailSwallow logs the failure and lets the enclosing operation succeed.
	FailSwallow FailureMode = iota
	// FailPropagate surfaces the failure to the caller.
	FailPropagate
)

// Sender is the outbound email surface used by the services.
type Sender interface {
	SendVerificationCode(ctx context.Context, msg VerificationCodeEmail) error
	SendQuoteIssued(ctx context.Context, msg QuoteIssuedEmail) error
}

// VerificationCodeEmail carries the data for a verification code delivery.
// TrackingCode ties the email back to the quote the buyer submitted.
type VerificationCodeEmail struct {
	To           string
	TrackingCode string
	Code         string
	ExpiresAt    time.Time
}

// QuoteIssuedEmail notifies a buyer that pricing has been published.
type QuoteIssuedEmail struct {
	To           string
	TrackingCode string
	QuoteNumber  string
	ValidUntil   *time.Time
}

// Client delivers email through the configured HTTP mail relay.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	from       string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the mail relay client from configuration.
func NewClient(cfg config.MailerConfig, opts ...Option) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("mailer endpoint is required")
	}
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		return nil, fmt.Errorf("mailer from address is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		from:       from,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

type relayPayload struct {
	From     string         `json:"from"`
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

// SendVerificationCode delivers the email verification code.
func (c *Client) SendVerificationCode(ctx context.Context, msg VerificationCodeEmail) error {
	if strings.TrimSpace(msg.To) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient is required")
	}
	if strings.TrimSpace(msg.Code) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "verification code is required")
	}

	payload := relayPayload{
		From:     c.from,
		To:       msg.To,
		Subject:  "Verify your email",
		Template: "verification_code",
		Data: map[string]any{
			"tracking_code": msg.TrackingCode,
			"code":          msg.Code,
			"expires_at":    msg.ExpiresAt.UTC().Format(time.RFC3339),
		},
	}
	return c.post(ctx, payload)
}

// SendQuoteIssued notifies the buyer that their quote has pricing attached.
func (c *Client) SendQuoteIssued(ctx context.Context, msg QuoteIssuedEmail) error {
	if strings.TrimSpace(msg.To) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient is required")
	}

	data := map[string]any{
		"tracking_code": msg.TrackingCode,
		"quote_number":  msg.QuoteNumber,
	}
	if msg.ValidUntil != nil {
		data["valid_until"] = msg.ValidUntil.UTC().Format(time.RFC3339)
	}

	payload := relayPayload{
		From:     c.from,
		To:       msg.To,
		Subject:  "Your quote is ready",
		Template: "quote_issued",
		Data:     data,
	}
	return c.post(ctx, payload)
}

func (c *Client) post(ctx context.Context, payload relayPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal mail payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/messages", bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build mail request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute mail request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"mail relay rejected message",
		)
	}

	return nil
}
