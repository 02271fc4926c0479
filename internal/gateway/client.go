package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hairfy/appointment-notifier/internal/errs"
)

const maxBody = 1 << 20

// Response is the gateway's reply to an accepted send.
type Response struct {
	StatusCode int
	Payload    json.RawMessage
}

// InstanceStatus is the gateway's view of a session instance.
type InstanceStatus struct {
	Connected bool   `json:"connected"`
	LoggedIn  bool   `json:"loggedIn"`
	State     string `json:"-"`
	QRCode    string `json:"-"`
}

// Ready reports whether the instance can send messages.
func (s InstanceStatus) Ready() bool { return s.Connected && s.LoggedIn }

// RejectedError is a gateway reply that was parsed but not accepted.
type RejectedError struct {
	StatusCode int
	Payload    json.RawMessage
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: status=%d: %s", errs.ErrGatewayRejected, e.StatusCode, e.Detail())
}

func (e *RejectedError) Unwrap() error { return errs.ErrGatewayRejected }

// Detail extracts the gateway's own error text, if any.
func (e *RejectedError) Detail() string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(e.Payload, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return "Erro na API"
}

type ClientOpts struct {
	BaseURL       string
	SendPath      string // default /send/text
	StatusPath    string // default /instance/status
	TimeoutMs     int
	FailThreshold int
	OpenForMs     int
}

// Client talks to the WhatsApp gateway. Transport failures and 5xx replies
// count toward the breaker; 4xx rejections do not.
type Client struct {
	baseURL    string
	sendPath   string
	statusPath string
	client     *http.Client
	br         *Breaker
}

func NewClient(opts ClientOpts) *Client {
	if opts.TimeoutMs <= 0 {
		opts.TimeoutMs = 10000
	}
	if opts.FailThreshold <= 0 {
		opts.FailThreshold = 5
	}
	if opts.OpenForMs <= 0 {
		opts.OpenForMs = 30000
	}
	if opts.SendPath == "" {
		opts.SendPath = "/send/text"
	}
	if opts.StatusPath == "" {
		opts.StatusPath = "/instance/status"
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		sendPath:   opts.SendPath,
		statusPath: opts.StatusPath,
		client:     &http.Client{Timeout: time.Duration(opts.TimeoutMs) * time.Millisecond},
		br:         NewBreaker(opts.FailThreshold, time.Duration(opts.OpenForMs)*time.Millisecond),
	}
}

func (c *Client) BreakerState() string { return c.br.State() }

type sendBody struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// Send posts one text message to number on behalf of the session token.
func (c *Client) Send(ctx context.Context, token, number, text string) (*Response, error) {
	b, err := json.Marshal(sendBody{Number: number, Text: text})
	if err != nil {
		return nil, err
	}

	status, payload, err := c.do(ctx, http.MethodPost, c.sendPath, token, b)
	if err != nil {
		return nil, err
	}

	if !truthy(payload) {
		return nil, &RejectedError{StatusCode: status, Payload: payload}
	}

	return &Response{StatusCode: status, Payload: payload}, nil
}

// Status fetches the instance state for token.
func (c *Client) Status(ctx context.Context, token string) (*InstanceStatus, error) {
	status, payload, err := c.do(ctx, http.MethodGet, c.statusPath, token, nil)
	if err != nil {
		return nil, err
	}

	var body struct {
		Connected bool `json:"connected"`
		LoggedIn  bool `json:"loggedIn"`
		Instance  struct {
			Status string `json:"status"`
			QRCode string `json:"qrcode"`
		} `json:"instance"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, &RejectedError{StatusCode: status, Payload: payload}
	}

	return &InstanceStatus{
		Connected: body.Connected,
		LoggedIn:  body.LoggedIn,
		State:     body.Instance.Status,
		QRCode:    body.Instance.QRCode,
	}, nil
}

// do performs one request and returns the status with a JSON body.
// Non-2xx replies come back as *RejectedError.
func (c *Client) do(ctx context.Context, method, path, token string, body []byte) (int, json.RawMessage, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", errs.ErrGatewayUnreachable, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("token", token)

	if !c.br.TryAcquire() {
		return 0, nil, fmt.Errorf("%w: circuit open", errs.ErrGatewayUnreachable)
	}

	res, err := c.client.Do(req)
	if err != nil {
		c.br.OnFailure()
		return 0, nil, fmt.Errorf("%w: %v", errs.ErrGatewayUnreachable, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		c.br.OnFailure()
		return 0, nil, fmt.Errorf("%w: read body: %v", errs.ErrGatewayUnreachable, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		raw = []byte("null")
	}
	if !json.Valid(raw) {
		c.br.OnFailure()
		return 0, nil, fmt.Errorf("%w: status=%d: non-JSON body", errs.ErrGatewayUnreachable, res.StatusCode)
	}

	if res.StatusCode/100 == 5 {
		c.br.OnFailure()
	} else {
		c.br.OnSuccess()
	}

	if res.StatusCode/100 != 2 {
		return res.StatusCode, raw, &RejectedError{StatusCode: res.StatusCode, Payload: raw}
	}

	return res.StatusCode, raw, nil
}

// truthy reports whether a JSON value would pass a JavaScript truthiness check.
func truthy(raw json.RawMessage) bool {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0
	default:
		return true
	}
}
