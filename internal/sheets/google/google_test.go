package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"

	goption "google.golang.org/api/option"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = New(context.Background(), Config{
		SpreadsheetID:   "sheet",
		CredentialsFile: filepath.Join(t.TempDir(), "absent.json"),
	})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func newLocalClient(t *testing.T, cfg Config, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), cfg,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestClient_AppendEntry(t *testing.T) {
	var gotPath, gotInput string
	var gotBody struct {
		Values [][]any `json:"values"`
	}
	c := newLocalClient(t, Config{SpreadsheetID: "sheet-1"}, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInput = r.URL.Query().Get("valueInputOption")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1","updates":{"updatedRange":"Ledger!A7:E7","updatedRows":1}}`))
	})

	desc := "Groceries"
	entry := ports.EntryFor(core.Transaction{
		Amount:          core.MustParseMoney("42.10"),
		Description:     &desc,
		TransactionDate: core.NewDate(2024, 3, 9),
		Type:            core.Expense,
	}, "Food & Dining")

	ref, err := c.AppendEntry(context.Background(), entry)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "Ledger!A7:E7" {
		t.Errorf("ref = %q", ref)
	}
	if !strings.HasSuffix(gotPath, ":append") || !strings.Contains(gotPath, "/v4/spreadsheets/sheet-1/values/") {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotInput != "USER_ENTERED" {
		t.Errorf("valueInputOption = %q", gotInput)
	}
	if len(gotBody.Values) != 1 || len(gotBody.Values[0]) != 5 {
		t.Fatalf("unexpected values %v", gotBody.Values)
	}
	row := gotBody.Values[0]
	if row[0] != "2024-03-09" || row[1] != "Groceries" || row[2] != "Food & Dining" || row[3] != "expense" || row[4] != 42.1 {
		t.Errorf("unexpected row %v", row)
	}
}

func TestClient_AppendEntryServerError(t *testing.T) {
	c := newLocalClient(t, Config{SpreadsheetID: "s", SheetName: "Book"}, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
	})

	_, err := c.AppendEntry(context.Background(), ports.LedgerEntry{Type: core.Income})
	if err == nil || !strings.Contains(err.Error(), "append to sheet Book") {
		t.Fatalf("unexpected error: %v", err)
	}
}
