package memory

import (
	"context"
	"sync"
	"testing"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

func TestLedgerAppend(t *testing.T) {
	l := New()
	ref, err := l.AppendEntry(context.Background(), ports.EntryFor(core.Transaction{
		Amount: core.Money{Cents: 123},
		Type:   core.Expense,
	}, ""))
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}
	got := l.Entries()
	if len(got) != 1 || got[0].Category != "Uncategorized" || got[0].Description != "" {
		t.Fatalf("unexpected entries %+v", got)
	}
}

func TestLedgerConcurrentAppend(t *testing.T) {
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.AppendEntry(context.Background(), ports.LedgerEntry{Type: core.Income})
		}()
	}
	wg.Wait()
	if n := len(l.Entries()); n != 20 {
		t.Fatalf("entries = %d, want 20", n)
	}
}
