// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// JSON bodies, path ids and the optional list filters.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// decodeJSON reads one JSON object from the request body into dst. Syntax
// and type errors are reported as validation errors.
func decodeJSON(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return core.Invalid("", "request body is required")
		}
		return core.Invalid("", "invalid JSON body: %v", err)
	}
	return nil
}

// parseID reads the positive integer path parameter "id".
func parseID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, core.Invalid("id", "must be a positive integer, got %q", raw)
	}
	return id, nil
}

// ParseDateRange reads the optional startDate and endDate parameters.
func ParseDateRange(q url.Values) (core.DateRange, error) {
	var r core.DateRange
	var err error
	if r.From, err = optionalDate(q, "startDate"); err != nil {
		return core.DateRange{}, err
	}
	if r.To, err = optionalDate(q, "endDate"); err != nil {
		return core.DateRange{}, err
	}
	return r, r.Validate()
}

// ParseKind reads the optional type parameter.
func ParseKind(q url.Values) (core.Kind, error) {
	k := core.Kind(strings.TrimSpace(q.Get("type")))
	if k != "" && !k.Valid() {
		return "", core.Invalid("type", "must be %q or %q", core.Expense, core.Income)
	}
	return k, nil
}

// ParseTransactionFilter reads startDate, endDate, type and categoryId.
func ParseTransactionFilter(q url.Values) (core.TransactionFilter, error) {
	var f core.TransactionFilter
	var err error
	if f.Range, err = ParseDateRange(q); err != nil {
		return f, err
	}
	if f.Type, err = ParseKind(q); err != nil {
		return f, err
	}
	if v := strings.TrimSpace(q.Get("categoryId")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, core.Invalid("categoryId", "must be an integer, got %q", v)
		}
		f.CategoryID = &id
	}
	return f, nil
}

// ParseMonths reads the trailing window of the trends report, defaulting
// to core.DefaultTrendMonths.
func ParseMonths(q url.Values) (int, error) {
	v := strings.TrimSpace(q.Get("months"))
	if v == "" {
		return core.DefaultTrendMonths, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, core.Invalid("months", "must be a positive integer, got %q", v)
	}
	return n, nil
}

func optionalDate(q url.Values, key string) (core.Date, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, core.Invalid(key, "%v", err)
	}
	return d, nil
}

// transactionRequest is the body of transaction create and update.
type transactionRequest struct {
	Amount          *core.Money `json:"amount"`
	Description     *string     `json:"description"`
	CategoryID      *int64      `json:"category_id"`
	TransactionDate core.Date   `json:"transaction_date"`
	Type            core.Kind   `json:"type"`
}

func (req transactionRequest) input() (core.TransactionInput, error) {
	if req.Amount == nil {
		return core.TransactionInput{}, core.Invalid("amount", "is required")
	}
	in := core.TransactionInput{
		Amount:          *req.Amount,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		TransactionDate: req.TransactionDate,
		Type:            req.Type,
	}
	return in, in.Validate()
}

// budgetRequest is the body of budget creation.
type budgetRequest struct {
	CategoryID *int64      `json:"category_id"`
	Amount     *core.Money `json:"amount"`
	Period     core.Period `json:"period"`
	StartDate  core.Date   `json:"start_date"`
	EndDate    core.Date   `json:"end_date"`
}

func (req budgetRequest) input() (core.BudgetInput, error) {
	if req.CategoryID == nil {
		return core.BudgetInput{}, core.Invalid("category_id", "is required")
	}
	if req.Amount == nil {
		return core.BudgetInput{}, core.Invalid("amount", "is required")
	}
	in := core.BudgetInput{
		CategoryID: *req.CategoryID,
		Amount:     *req.Amount,
		Period:     req.Period,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	}
	return in, in.Validate()
}

// queryRequest is the body of the ad-hoc query endpoint. Query is kept raw
// so a non-string value can be told apart from a missing one.
type queryRequest struct {
	Query json.RawMessage `json:"query"`
}

// text returns the query string, or core.ErrQueryRequired when it is
// missing, not a string, or blank.
func (req queryRequest) text() (string, error) {
	if len(req.Query) == 0 {
		return "", core.ErrQueryRequired
	}
	var q string
	if err := json.Unmarshal(req.Query, &q); err != nil {
		return "", fmt.Errorf("%w: not a string", core.ErrQueryRequired)
	}
	if strings.TrimSpace(q) == "" {
		return "", core.ErrQueryRequired
	}
	return q, nil
}
