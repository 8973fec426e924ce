// Package sheets talks to the Google Apps Script web app that mirrors the
// sales list into a spreadsheet.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"salon-pos/internal/analytics"
	"salon-pos/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

// maxResponseBytes caps how much of a script response is read.
const maxResponseBytes = 32 << 20

var ErrNotConfigured = errors.New("GAS_URL is not configured")

// RequestsTotal counts calls to the script by action and result.
var RequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sheets_requests_total",
		Help: "Requests sent to the spreadsheet backend",
	},
	[]string{"action", "result"},
)

// RemoteError is a failure reported by the script or its HTTP front end.
type RemoteError struct {
	Action     string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("sheets %s failed (%d): %s", e.Action, e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrNotConfigured
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Camel-cased layout the spreadsheet stores. Both name spellings are sent
// because older sheet versions read "customer" and "products".
type wireItem struct {
	Category    string `json:"category"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
	Subtotal    int64  `json:"subtotal"`
	IsManager   bool   `json:"isManager"`
}

type wireSale struct {
	ID            string     `json:"id"`
	Date          string     `json:"date"`
	CustomerName  string     `json:"customerName"`
	Customer      string     `json:"customer"`
	PaymentMethod string     `json:"paymentMethod"`
	Items         []wireItem `json:"items"`
	Products      []wireItem `json:"products"`
	TotalAmount   int64      `json:"totalAmount"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt,omitempty"`
}

func toWire(s models.Sale) wireSale {
	items := make([]wireItem, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, wireItem{
			Category:    string(it.Category),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
			IsManager:   it.IsManager,
		})
	}
	w := wireSale{
		ID:            s.ID,
		Date:          s.Date,
		CustomerName:  s.CustomerName,
		Customer:      s.CustomerName,
		PaymentMethod: string(s.PaymentMethod),
		Items:         items,
		Products:      items,
		TotalAmount:   s.TotalAmount,
	}
	if !s.CreatedAt.IsZero() {
		w.CreatedAt = s.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !s.UpdatedAt.IsZero() {
		w.UpdatedAt = s.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return w
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// SaveSale pushes one sale after it was recorded or edited.
func (c *Client) SaveSale(ctx context.Context, sale models.Sale) error {
	payload := map[string]any{"action": "saveSale", "sale": toWire(sale)}
	_, err := c.post(ctx, "saveSale", payload)
	return err
}

// Import sends the whole local list; the script overwrites its sheet with it.
func (c *Client) Import(ctx context.Context, sales []models.Sale) error {
	data := make([]wireSale, 0, len(sales))
	for _, s := range sales {
		data = append(data, toWire(s))
	}
	_, err := c.post(ctx, "import", map[string]any{"action": "import", "data": data})
	return err
}

// Clear deletes every row on the spreadsheet side.
func (c *Client) Clear(ctx context.Context) error {
	_, err := c.post(ctx, "clear", map[string]any{"action": "clear"})
	return err
}

// Load fetches the stored list. The script answers either with a
// {status, data} envelope or with a bare array.
func (c *Client) Load(ctx context.Context) ([]analytics.RawSale, error) {
	body, err := c.get(ctx, "load")
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	var raw []analytics.RawSale
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, c.fail("load", http.StatusOK, "invalid data format: "+err.Error())
		}
		return raw, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil || env.Status != "success" || len(env.Data) == 0 {
		return nil, c.fail("load", http.StatusOK, "invalid data format")
	}
	if err := json.Unmarshal(env.Data, &raw); err != nil {
		return nil, c.fail("load", http.StatusOK, "invalid data format: "+err.Error())
	}
	return raw, nil
}

// Ping calls the script's test action and returns whatever it reports.
func (c *Client) Ping(ctx context.Context) (map[string]any, error) {
	body, err := c.get(ctx, "test")
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, c.fail("test", http.StatusOK, "response is not JSON")
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, action string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	// text/plain keeps Apps Script from demanding a CORS preflight
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	return c.do(req, action)
}

func (c *Client) get(ctx context.Context, action string) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("action", action)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, action)
}

func (c *Client) do(req *http.Request, action string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		RequestsTotal.WithLabelValues(action, "error").Inc()
		return nil, fmt.Errorf("sheets %s: %w", action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		RequestsTotal.WithLabelValues(action, "error").Inc()
		return nil, fmt.Errorf("sheets %s: read response: %w", action, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(action, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// Apps Script answers 200 even when the script itself failed
	var env envelope
	if json.Unmarshal(body, &env) == nil && env.Status != "" && env.Status != "success" {
		msg := env.Message
		if msg == "" {
			msg = "unknown"
		}
		return nil, c.fail(action, resp.StatusCode, msg)
	}

	RequestsTotal.WithLabelValues(action, "ok").Inc()
	return body, nil
}

func (c *Client) fail(action string, status int, msg string) error {
	RequestsTotal.WithLabelValues(action, "error").Inc()
	return &RemoteError{Action: action, StatusCode: status, Message: msg}
}
