package expense

import (
	"context"
	"fmt"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/events"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/registers/balance"
	"ledgerpos/pkg/logger"
)

// Service records and removes expenses.
type Service struct {
	repo      Repository
	banks     *balance.Bank
	ledger    *ledger.Ledger
	audit     *audit.Recorder
	publisher events.Publisher
	txManager tx.Manager
}

// NewService creates a new expense service.
func NewService(repo Repository, banks *balance.Bank, l *ledger.Ledger, rec *audit.Recorder, pub events.Publisher, txm tx.Manager) *Service {
	if pub == nil {
		pub = events.Discard{}
	}
	return &Service{
		repo:      repo,
		banks:     banks,
		ledger:    l,
		audit:     rec,
		publisher: pub,
		txManager: txm,
	}
}

// Create pays an expense out of the bank. The bank must hold enough money.
func (s *Service) Create(ctx context.Context, e *Expense) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.banks.RequireFunds(ctx, e.BankID, e.Amount); err != nil {
			return err
		}
		if err := s.repo.Insert(ctx, e); err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
		if err := s.banks.Decrease(ctx, e.BankID, e.Amount); err != nil {
			return err
		}
		entry := ledger.NewEntry(e.BankID, e.Amount, ledger.TypeExpense, ledger.OriginExpense, e.ID,
			fmt.Sprintf("Expense %s %s", e.Category, id.Short(e.ID)))
		if err := s.ledger.Append(ctx, entry); err != nil {
			return err
		}
		return s.publisher.Publish(ctx, events.Event{
			AggregateType: "expense",
			AggregateID:   e.ID,
			EventType:     events.ExpenseRecorded,
			Payload:       e,
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "expense recorded", "id", e.ID, "bank_id", e.BankID, "amount", e.Amount.String())
	return nil
}

// Delete returns the money of an expense to its bank.
// Returns false if the expense does not exist.
func (s *Service) Delete(ctx context.Context, expenseID id.ID) (bool, error) {
	var removed bool
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		e, err := s.repo.GetByID(ctx, expenseID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil
			}
			return err
		}

		if err := s.banks.Increase(ctx, e.BankID, e.Amount); err != nil {
			return err
		}
		if err := s.ledger.RemoveOrigin(ctx, ledger.OriginExpense, expenseID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, expenseID); err != nil {
			return fmt.Errorf("delete expense: %w", err)
		}
		if err := s.audit.Record(ctx, "expense", expenseID, audit.ActionDelete, e); err != nil {
			return err
		}
		if err := s.publisher.Publish(ctx, events.Event{
			AggregateType: "expense",
			AggregateID:   expenseID,
			EventType:     events.ExpenseDeleted,
			Payload:       e,
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
		logger.Info(ctx, "expense deleted", "id", expenseID)
	}
	return removed, nil
}

// GetByID returns one expense.
func (s *Service) GetByID(ctx context.Context, expenseID id.ID) (*Expense, error) {
	return s.repo.GetByID(ctx, expenseID)
}

// List returns one page of expenses, newest first.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Expense], error) {
	return s.repo.List(ctx, filter.Normalize())
}
