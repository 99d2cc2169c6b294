package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

const (
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

// Category defaults applied when the caller leaves them empty.
const (
	DefaultColor = "#6366f1"
	DefaultIcon  = "💰"
)

type (
	// Kind tells whether money flows out (expense) or in (income).
	Kind string

	// Period labels a budget's recurrence. It drives no rollover.
	Period string

	Category struct {
		ID        int64     `json:"id"`
		Name      string    `json:"name"`
		Type      Kind      `json:"type"`
		Color     string    `json:"color"`
		Icon      string    `json:"icon"`
		CreatedAt Timestamp `json:"created_at"`
	}

	// NewCategory is the input of category creation.
	NewCategory struct {
		Name  string `json:"name"`
		Type  Kind   `json:"type"`
		Color string `json:"color,omitempty"`
		Icon  string `json:"icon,omitempty"`
	}

	Transaction struct {
		ID              int64     `json:"id"`
		Amount          Money     `json:"amount"`
		Description     *string   `json:"description"`
		CategoryID      *int64    `json:"category_id"`
		TransactionDate Date      `json:"transaction_date"`
		Type            Kind      `json:"type"`
		CreatedAt       Timestamp `json:"created_at"`
		UpdatedAt       Timestamp `json:"updated_at"`
	}

	// TransactionView is a transaction joined with its category's display fields.
	TransactionView struct {
		Transaction
		CategoryName *string `json:"category_name"`
		Color        *string `json:"color"`
		Icon         *string `json:"icon"`
	}

	// TransactionInput is the full set of writable transaction fields.
	// A zero TransactionDate means "today".
	TransactionInput struct {
		Amount          Money
		Description     *string
		CategoryID      *int64
		TransactionDate Date
		Type            Kind
	}

	Budget struct {
		ID         int64     `json:"id"`
		CategoryID int64     `json:"category_id"`
		Amount     Money     `json:"amount"`
		Period     Period    `json:"period"`
		StartDate  Date      `json:"start_date"`
		EndDate    Date      `json:"end_date"`
		CreatedAt  Timestamp `json:"created_at"`
	}

	// BudgetView is a budget with category display fields and derived spending.
	BudgetView struct {
		Budget
		CategoryName *string `json:"category_name"`
		Color        *string `json:"color"`
		Icon         *string `json:"icon"`
		Spent        Money   `json:"spent"`
	}

	BudgetInput struct {
		CategoryID int64
		Amount     Money
		Period     Period
		StartDate  Date
		EndDate    Date
	}

	// DateRange bounds a query by transaction date, both ends inclusive.
	// A zero bound is open.
	DateRange struct {
		From Date
		To   Date
	}

	// TransactionFilter holds the optional, conjunctive list filters.
	TransactionFilter struct {
		Range      DateRange
		Type       Kind
		CategoryID *int64
	}
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func (k Kind) Valid() bool {
	return k == Expense || k == Income
}

func (p Period) Valid() bool {
	return p == Monthly || p == Yearly
}

// Validate checks the range is not inverted.
func (r DateRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return Invalid("endDate", "must not be before startDate")
	}
	return nil
}

// Contains reports whether d falls inside the range, inclusively.
func (r DateRange) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && r.To.Before(d) {
		return false
	}
	return true
}

func (f TransactionFilter) Validate() error {
	if err := f.Range.Validate(); err != nil {
		return err
	}
	if f.Type != "" && !f.Type.Valid() {
		return Invalid("type", "must be %q or %q", Expense, Income)
	}
	return nil
}

// Normalize trims the name and fills default color and icon.
func (c NewCategory) Normalize() NewCategory {
	c.Name = strings.TrimSpace(c.Name)
	c.Color = strings.TrimSpace(c.Color)
	c.Icon = strings.TrimSpace(c.Icon)
	if c.Color == "" {
		c.Color = DefaultColor
	}
	if c.Icon == "" {
		c.Icon = DefaultIcon
	}
	return c
}

func (c NewCategory) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return Invalid("name", "is required")
	}
	if len(name) > 100 {
		return Invalid("name", "too long (max 100 characters)")
	}
	if !c.Type.Valid() {
		return Invalid("type", "must be %q or %q", Expense, Income)
	}
	if len(c.Color) > 7 {
		return Invalid("color", "too long (max 7 characters)")
	}
	if len(c.Icon) > 50 {
		return Invalid("icon", "too long (max 50 characters)")
	}
	return nil
}

func (in TransactionInput) Validate() error {
	if !in.Type.Valid() {
		return Invalid("type", "must be %q or %q", Expense, Income)
	}
	if in.CategoryID != nil && *in.CategoryID <= 0 {
		return Invalid("category_id", "must be a positive id")
	}
	return nil
}

func (in BudgetInput) Validate() error {
	if in.CategoryID <= 0 {
		return Invalid("category_id", "is required")
	}
	if in.Amount.Cents <= 0 {
		return Invalid("amount", "must be greater than zero")
	}
	if !in.Period.Valid() {
		return Invalid("period", "must be %q or %q", Monthly, Yearly)
	}
	if in.StartDate.IsZero() {
		return Invalid("start_date", "is required")
	}
	if in.EndDate.IsZero() {
		return Invalid("end_date", "is required")
	}
	if in.EndDate.Before(in.StartDate) {
		return Invalid("end_date", "must not be before start_date")
	}
	return nil
}
