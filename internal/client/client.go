// Package client is a typed HTTP client for the finance tracker API.
package client

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

	"fintrack/internal/core"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Health is the body of the health endpoint.
type Health struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error"`
}

// Client talks to one API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL. A nil httpClient gets a default one
// with a request timeout.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &Client{baseURL: u.String(), httpClient: httpClient}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response of %s %s: %w", method, path, err)
	}
	return nil
}

// Health calls the health endpoint. An unhealthy server is reported as an
// *APIError carrying the server's error text.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, &h)
	return h, err
}

func (c *Client) Categories(ctx context.Context) ([]core.Category, error) {
	var out []core.Category
	return out, c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &out)
}

func (c *Client) CreateCategory(ctx context.Context, in core.NewCategory) (core.Category, error) {
	var out core.Category
	return out, c.do(ctx, http.MethodPost, "/api/categories", nil, in, &out)
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/categories/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// transactionBody is the wire form of core.TransactionInput. A zero date is
// sent as null and the server defaults it to today.
type transactionBody struct {
	Amount          core.Money `json:"amount"`
	Description     *string    `json:"description"`
	CategoryID      *int64     `json:"category_id"`
	TransactionDate core.Date  `json:"transaction_date"`
	Type            core.Kind  `json:"type"`
}

func toTransactionBody(in core.TransactionInput) transactionBody {
	return transactionBody{
		Amount:          in.Amount,
		Description:     in.Description,
		CategoryID:      in.CategoryID,
		TransactionDate: in.TransactionDate,
		Type:            in.Type,
	}
}

// Transactions lists transactions matching f.
func (c *Client) Transactions(ctx context.Context, f core.TransactionFilter) ([]core.TransactionView, error) {
	q := rangeQuery(f.Range)
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.CategoryID != nil {
		q.Set("categoryId", strconv.FormatInt(*f.CategoryID, 10))
	}
	var out []core.TransactionView
	return out, c.do(ctx, http.MethodGet, "/api/transactions", q, nil, &out)
}

func (c *Client) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	var out core.Transaction
	return out, c.do(ctx, http.MethodPost, "/api/transactions", nil, toTransactionBody(in), &out)
}

func (c *Client) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	var out core.Transaction
	return out, c.do(ctx, http.MethodPut, "/api/transactions/"+strconv.FormatInt(id, 10), nil, toTransactionBody(in), &out)
}

func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/transactions/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) Budgets(ctx context.Context) ([]core.BudgetView, error) {
	var out []core.BudgetView
	return out, c.do(ctx, http.MethodGet, "/api/budgets", nil, nil, &out)
}

func (c *Client) CreateBudget(ctx context.Context, in core.BudgetInput) (core.Budget, error) {
	body := struct {
		CategoryID int64       `json:"category_id"`
		Amount     core.Money  `json:"amount"`
		Period     core.Period `json:"period"`
		StartDate  core.Date   `json:"start_date"`
		EndDate    core.Date   `json:"end_date"`
	}{in.CategoryID, in.Amount, in.Period, in.StartDate, in.EndDate}
	var out core.Budget
	return out, c.do(ctx, http.MethodPost, "/api/budgets", nil, body, &out)
}

func (c *Client) Summary(ctx context.Context, r core.DateRange) (core.Summary, error) {
	var out core.Summary
	return out, c.do(ctx, http.MethodGet, "/api/analytics/summary", rangeQuery(r), nil, &out)
}

func (c *Client) SpendingByCategory(ctx context.Context, r core.DateRange, kind core.Kind) ([]core.CategoryTotal, error) {
	q := rangeQuery(r)
	if kind != "" {
		q.Set("type", string(kind))
	}
	var out []core.CategoryTotal
	return out, c.do(ctx, http.MethodGet, "/api/analytics/by-category", q, nil, &out)
}

// Trends fetches per-month totals; months <= 0 leaves the server default.
func (c *Client) Trends(ctx context.Context, months int) ([]core.MonthTrend, error) {
	q := url.Values{}
	if months > 0 {
		q.Set("months", strconv.Itoa(months))
	}
	var out []core.MonthTrend
	return out, c.do(ctx, http.MethodGet, "/api/analytics/trends", q, nil, &out)
}

// Query runs an ad-hoc SELECT on the server.
func (c *Client) Query(ctx context.Context, sql string) (core.QueryResult, error) {
	var out core.QueryResult
	return out, c.do(ctx, http.MethodPost, "/api/query", nil, map[string]string{"query": sql}, &out)
}

func rangeQuery(r core.DateRange) url.Values {
	q := url.Values{}
	if !r.From.IsZero() {
		q.Set("startDate", r.From.String())
	}
	if !r.To.IsZero() {
		q.Set("endDate", r.To.String())
	}
	return q
}
