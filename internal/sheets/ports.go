package sheets

import (
	"context"

	"fintrack/internal/core"
)

// LedgerEntry is one row of the exported ledger.
type LedgerEntry struct {
	Date        core.Date
	Description string
	Category    string
	Type        core.Kind
	Amount      core.Money
}

// EntryFor builds the ledger row of tx. An empty category name is written
// as "Uncategorized".
func EntryFor(tx core.Transaction, category string) LedgerEntry {
	if category == "" {
		category = "Uncategorized"
	}
	e := LedgerEntry{
		Date:     tx.TransactionDate,
		Category: category,
		Type:     tx.Type,
		Amount:   tx.Amount,
	}
	if tx.Description != nil {
		e.Description = *tx.Description
	}
	return e
}

// Row renders the entry in column order: date, description, category,
// type, amount.
func (e LedgerEntry) Row() []any {
	return []any{e.Date.String(), e.Description, e.Category, string(e.Type), e.Amount.Float()}
}

// Ports for outbound adapters.
type (
	LedgerWriter interface {
		AppendEntry(ctx context.Context, e LedgerEntry) (rowRef string, err error)
	}
)
