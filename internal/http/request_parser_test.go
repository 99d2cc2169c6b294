package http

import (
	"errors"
	"net/url"
	"testing"

	"fintrack/internal/core"
)

func TestParseTransactionFilter(t *testing.T) {
	q := url.Values{}
	q.Set("startDate", "2024-01-01")
	q.Set("endDate", "2024-01-31")
	q.Set("type", "income")
	q.Set("categoryId", "7")

	f, err := ParseTransactionFilter(q)
	if err != nil {
		t.Fatal(err)
	}
	if f.Range.From.String() != "2024-01-01" || f.Range.To.String() != "2024-01-31" {
		t.Fatalf("range %v..%v", f.Range.From, f.Range.To)
	}
	if f.Type != core.Income || f.CategoryID == nil || *f.CategoryID != 7 {
		t.Fatalf("filter %+v", f)
	}

	f, err = ParseTransactionFilter(url.Values{})
	if err != nil || !f.Range.From.IsZero() || f.Type != "" || f.CategoryID != nil {
		t.Fatalf("empty query must give an empty filter: %+v %v", f, err)
	}
}

func TestParseMonths(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", core.DefaultTrendMonths, false},
		{"12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tc := range cases {
		q := url.Values{}
		if tc.in != "" {
			q.Set("months", tc.in)
		}
		got, err := ParseMonths(q)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseMonths(%q) = %d, %v", tc.in, got, err)
		}
		if err != nil && !core.IsValidation(err) {
			t.Errorf("ParseMonths(%q) error must be a validation error", tc.in)
		}
	}
}

func TestQueryRequestText(t *testing.T) {
	cases := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{`"SELECT 1"`, "SELECT 1", false},
		{``, "", true},
		{`42`, "", true},
		{`null`, "", true},
		{`"  "`, "", true},
	}
	for _, tc := range cases {
		got, err := queryRequest{Query: []byte(tc.raw)}.text()
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("text(%s) = %q, %v", tc.raw, got, err)
		}
		if err != nil && !errors.Is(err, core.ErrQueryRequired) {
			t.Errorf("text(%s) error %v is not ErrQueryRequired", tc.raw, err)
		}
	}
}

func TestTransactionRequestInput(t *testing.T) {
	amount := core.MustParseMoney("-4.5")
	in, err := transactionRequest{Amount: &amount, Type: core.Expense}.input()
	if err != nil || in.Amount.Cents != -450 || !in.TransactionDate.IsZero() {
		t.Fatalf("input %+v err %v", in, err)
	}
	if _, err := (transactionRequest{Type: core.Expense}).input(); !core.IsValidation(err) {
		t.Fatalf("missing amount: %v", err)
	}
}
