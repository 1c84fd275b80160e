package settlement

import (
	"context"
	"fmt"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/documents"
	"ledgerpos/internal/domain/events"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/payment"
	"ledgerpos/internal/domain/registers/balance"
	"ledgerpos/pkg/logger"
)

// Engine applies and reverts payments for one side.
type Engine struct {
	side      Side
	banks     *balance.Bank
	ledger    *ledger.Ledger
	audit     *audit.Recorder
	publisher events.Publisher
	txManager tx.Manager
}

// NewEngine creates an engine for side.
func NewEngine(side Side, banks *balance.Bank, l *ledger.Ledger, rec *audit.Recorder, pub events.Publisher, txm tx.Manager) *Engine {
	if pub == nil {
		pub = events.Discard{}
	}
	return &Engine{
		side:      side,
		banks:     banks,
		ledger:    l,
		audit:     rec,
		publisher: pub,
		txManager: txm,
	}
}

// Pay applies amount against a credit document. Paying the whole remaining
// balance settles the document.
func (e *Engine) Pay(ctx context.Context, documentID, bankID id.ID, amount types.Money) (*payment.View, error) {
	var (
		view    *payment.View
		settled bool
	)
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := e.side.Documents.Lock(ctx, documentID)
		if err != nil {
			return err
		}
		if err := doc.CheckPayable(e.side.Entity, amount); err != nil {
			return err
		}

		bank, err := e.banks.Account(ctx, bankID)
		if err != nil {
			return err
		}
		if !e.side.Inflow {
			if err := e.banks.RequireFunds(ctx, bankID, amount); err != nil {
				return err
			}
		}

		p := payment.New(documentID, bankID, amount)
		if err := e.side.Payments.Insert(ctx, p); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		settled, err = doc.ApplyPayment(e.side.Entity, amount)
		if err != nil {
			return err
		}
		if err := e.side.Documents.Save(ctx, doc); err != nil {
			return fmt.Errorf("update %s: %w", e.side.Entity, err)
		}

		if err := e.moveIn(ctx, bankID, amount); err != nil {
			return err
		}
		entry := ledger.NewEntry(bankID, amount, e.side.EntryType, e.side.EntryOrigin, p.ID,
			e.side.describe(p.ID, documentID)).ForDocument(documentID)
		if err := e.ledger.Append(ctx, entry); err != nil {
			return err
		}

		if err := e.publisher.Publish(ctx, events.Event{
			AggregateType: e.side.paymentEntity(),
			AggregateID:   p.ID,
			EventType:     events.PaymentApplied,
			Payload:       p,
		}); err != nil {
			return err
		}

		view = &payment.View{
			Payment:          *p,
			BankName:         bank.Name,
			RemainingBalance: doc.RemainingBalance,
			Status:           doc.Status,
			StatusName:       doc.Status.Label(e.side.StatusSide),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment applied",
		"entity", e.side.Entity, "document_id", documentID, "payment_id", view.ID,
		"amount", amount.String(), "remaining", view.RemainingBalance.String(), "settled", settled)
	return view, nil
}

// Unpay reverts a payment: the remaining balance is restored, a settled
// document goes back to credit and the money movement at the bank is undone.
// It returns false if the payment does not exist.
func (e *Engine) Unpay(ctx context.Context, paymentID id.ID) (bool, error) {
	var removed bool
	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := e.side.Payments.GetByID(ctx, paymentID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil
			}
			return err
		}

		doc, err := e.side.Documents.Lock(ctx, p.DocumentID)
		if err != nil {
			return fmt.Errorf("load %s of payment %s: %w", e.side.Entity, paymentID, err)
		}
		if _, err := doc.RevertPayment(e.side.Entity, p.Amount); err != nil {
			return err
		}
		if err := e.side.Documents.Save(ctx, doc); err != nil {
			return fmt.Errorf("update %s: %w", e.side.Entity, err)
		}

		if err := e.moveOut(ctx, p.BankID, p.Amount); err != nil {
			return err
		}

		if err := e.side.Payments.Delete(ctx, paymentID); err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}
		if err := e.ledger.RemoveOrigin(ctx, e.side.EntryOrigin, paymentID); err != nil {
			return err
		}

		if err := e.audit.Record(ctx, e.side.paymentEntity(), paymentID, audit.ActionUnpay, p); err != nil {
			return err
		}
		if err := e.publisher.Publish(ctx, events.Event{
			AggregateType: e.side.paymentEntity(),
			AggregateID:   paymentID,
			EventType:     events.PaymentReverted,
			Payload:       p,
		}); err != nil {
			return err
		}

		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if removed {
		logger.Info(ctx, "payment reverted", "entity", e.side.Entity, "payment_id", paymentID)
	}
	return removed, nil
}

// List returns the payments of a document, oldest first.
func (e *Engine) List(ctx context.Context, documentID id.ID) ([]payment.View, error) {
	var out []payment.View
	err := e.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		doc, err := e.side.Documents.Get(ctx, documentID)
		if err != nil {
			return err
		}
		payments, err := e.side.Payments.ListByDocument(ctx, documentID)
		if err != nil {
			return fmt.Errorf("list payments: %w", err)
		}

		names := make(map[id.ID]string)
		out = make([]payment.View, 0, len(payments))
		for _, p := range payments {
			name, ok := names[p.BankID]
			if !ok {
				name, err = documents.ResolveName(ctx, func(ctx context.Context) (string, error) {
					b, err := e.banks.Account(ctx, p.BankID)
					if err != nil {
						return "", err
					}
					return b.Name, nil
				})
				if err != nil {
					return err
				}
				names[p.BankID] = name
			}
			out = append(out, payment.View{
				Payment:          p,
				BankName:         name,
				RemainingBalance: doc.RemainingBalance,
				Status:           doc.Status,
				StatusName:       doc.Status.Label(e.side.StatusSide),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// moveIn books a payment at the bank.
func (e *Engine) moveIn(ctx context.Context, bankID id.ID, amount types.Money) error {
	if e.side.Inflow {
		return e.banks.Increase(ctx, bankID, amount)
	}
	return e.banks.Decrease(ctx, bankID, amount)
}

// moveOut undoes moveIn.
func (e *Engine) moveOut(ctx context.Context, bankID id.ID, amount types.Money) error {
	if e.side.Inflow {
		return e.banks.Decrease(ctx, bankID, amount)
	}
	return e.banks.Increase(ctx, bankID, amount)
}
