package services

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

type fakeStore struct {
	rows   map[int64]core.Transaction
	nextID int64
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[int64]core.Transaction{}}
}

func (f *fakeStore) CreateTransaction(_ context.Context, in core.TransactionInput) (core.Transaction, error) {
	if f.err != nil {
		return core.Transaction{}, f.err
	}
	f.nextID++
	tx := core.Transaction{ID: f.nextID, Amount: in.Amount, CategoryID: in.CategoryID, Type: in.Type, TransactionDate: in.TransactionDate}
	f.rows[tx.ID] = tx
	return tx, nil
}

func (f *fakeStore) UpdateTransaction(_ context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	if _, ok := f.rows[id]; !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	tx := core.Transaction{ID: id, Amount: in.Amount, CategoryID: in.CategoryID, Type: in.Type}
	f.rows[id] = tx
	return tx, nil
}

func (f *fakeStore) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	tx, ok := f.rows[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return tx, nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type recordingPublisher struct {
	events []*amqp.TransactionEvent
	err    error
}

func (p *recordingPublisher) PublishTransactionEvent(_ context.Context, e *amqp.TransactionEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func TestTransactionService_PublishesEveryWrite(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	pub := &recordingPublisher{}
	svc := NewTransactionService(store, pub)

	cat := int64(4)
	tx, err := svc.CreateTransaction(ctx, core.TransactionInput{Amount: core.MustParseMoney("5"), CategoryID: &cat, Type: core.Expense})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.UpdateTransaction(ctx, tx.ID, core.TransactionInput{Amount: core.MustParseMoney("6"), CategoryID: &cat, Type: core.Expense}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.DeleteTransaction(ctx, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(pub.events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(pub.events))
	}
	wantActions := []amqp.Action{amqp.ActionCreated, amqp.ActionUpdated, amqp.ActionDeleted}
	for i, e := range pub.events {
		if e.Action != wantActions[i] || e.TransactionID != tx.ID {
			t.Errorf("event %d = %+v", i, e)
		}
	}
	if pub.events[2].CategoryID == nil || *pub.events[2].CategoryID != 4 {
		t.Errorf("delete event must keep the category, got %+v", pub.events[2])
	}
}

func TestTransactionService_PublishFailureDoesNotFailWrite(t *testing.T) {
	store := newFakeStore()
	svc := NewTransactionService(store, &recordingPublisher{err: errors.New("broker down")})

	tx, err := svc.CreateTransaction(context.Background(), core.TransactionInput{Type: core.Income})
	if err != nil {
		t.Fatalf("create must succeed when publishing fails: %v", err)
	}
	if _, ok := store.rows[tx.ID]; !ok {
		t.Fatal("transaction must be stored")
	}
}

func TestTransactionService_NilPublisher(t *testing.T) {
	store := newFakeStore()
	svc := NewTransactionService(store, nil)
	tx, err := svc.CreateTransaction(context.Background(), core.TransactionInput{Type: core.Income})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteTransaction(context.Background(), tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestTransactionService_NotFoundIsWrapped(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewTransactionService(newFakeStore(), pub)

	_, err := svc.UpdateTransaction(context.Background(), 99, core.TransactionInput{Type: core.Expense})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := svc.DeleteTransaction(context.Background(), 99); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("failed writes must not publish, got %d events", len(pub.events))
	}
}

func TestTransactionService_StoreErrorIsReturned(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("disk full")
	pub := &recordingPublisher{}
	svc := NewTransactionService(store, pub)

	if _, err := svc.CreateTransaction(context.Background(), core.TransactionInput{Type: core.Expense}); err == nil {
		t.Fatal("expected store error")
	}
	if len(pub.events) != 0 {
		t.Fatal("failed create must not publish")
	}
}
