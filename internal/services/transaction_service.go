package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// TransactionStore is the persistence the service writes through.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// EventPublisher announces transaction changes to other processes.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error
}

// TransactionService orchestrates transaction writes across the store and AMQP
type TransactionService struct {
	store     TransactionStore
	publisher EventPublisher
}

// NewTransactionService wires the store and an optional publisher; a nil
// publisher disables events.
func NewTransactionService(store TransactionStore, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
	}
}

// CreateTransaction saves a transaction and announces it
func (s *TransactionService) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	tx, err := s.store.CreateTransaction(ctx, in)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	s.publish(ctx, amqp.ActionCreated, tx)
	return tx, nil
}

// UpdateTransaction replaces a transaction and announces the change
func (s *TransactionService) UpdateTransaction(ctx context.Context, id int64, in core.TransactionInput) (core.Transaction, error) {
	tx, err := s.store.UpdateTransaction(ctx, id, in)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.publish(ctx, amqp.ActionUpdated, tx)
	return tx, nil
}

// DeleteTransaction removes a transaction and announces the removal. The row
// is read first so the event still carries its category.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id int64) error {
	var tx core.Transaction
	if s.publisher != nil {
		existing, err := s.store.GetTransaction(ctx, id)
		if err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		tx = existing
	}
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if s.publisher != nil {
		s.publish(ctx, amqp.ActionDeleted, tx)
	}
	return nil
}

// publish never fails the request: the write has already been committed.
func (s *TransactionService) publish(ctx context.Context, action amqp.Action, tx core.Transaction) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "AMQP publisher not configured, skipping transaction event",
			"action", action, "transaction_id", tx.ID)
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, amqp.NewTransactionEvent(action, tx)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"action", action,
			"transaction_id", tx.ID,
			"error", err)
	}
}
