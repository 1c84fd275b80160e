// Package events defines the domain events emitted by reconciliations.
// Events are written in the same unit of work as the change they describe
// and relayed afterwards, so a rolled back operation never publishes anything.
package events

import (
	"context"

	"ledgerpos/internal/core/id"
)

const (
	SaleCreated     = "sale.created"
	SaleDeleted     = "sale.deleted"
	PurchaseCreated = "purchase.created"
	PurchaseDeleted = "purchase.deleted"
	PaymentApplied  = "payment.applied"
	PaymentReverted = "payment.reverted"
	ExpenseRecorded = "expense.recorded"
	ExpenseDeleted  = "expense.deleted"
	ManualRecorded  = "transaction.recorded"
	ManualRemoved   = "transaction.removed"
)

// Event is one domain event.
type Event struct {
	AggregateType string
	AggregateID   id.ID
	EventType     string
	Payload       any
}

// Publisher writes events into the current unit of work.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
