package ledger

import (
	"context"
	"fmt"
	"strings"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/events"
	"ledgerpos/internal/domain/registers/balance"
	"ledgerpos/pkg/logger"
)

// Service handles bank movements recorded by hand (deposits and withdrawals)
// and the listing of the whole ledger.
type Service struct {
	repo      Repository
	banks     *balance.Bank
	audit     *audit.Recorder
	publisher events.Publisher
	txManager tx.Manager
}

// NewService creates a new ledger service.
func NewService(repo Repository, banks *balance.Bank, rec *audit.Recorder, pub events.Publisher, txm tx.Manager) *Service {
	return &Service{
		repo:      repo,
		banks:     banks,
		audit:     rec,
		publisher: pub,
		txManager: txm,
	}
}

// RecordManual books an income or a withdrawal and moves the bank balance accordingly.
func (s *Service) RecordManual(ctx context.Context, bankID id.ID, t Type, amount types.Money, description string) (*Entry, error) {
	if !amount.IsPositive() || !types.FitsScale(amount) {
		return nil, apperror.NewInvalidAmount("amount must be greater than zero with at most 4 decimal places").
			WithDetail("amount", amount.String())
	}
	if t != TypeIncome && t != TypeWithdrawal {
		return nil, apperror.NewValidation("only income and withdrawal can be recorded by hand").
			WithDetail("type", string(t))
	}

	e := NewEntry(bankID, amount, t, OriginManual, id.Nil(), strings.TrimSpace(description))
	e.OriginID = e.ID

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		if t == TypeIncome {
			err = s.banks.Increase(ctx, bankID, amount)
		} else {
			err = s.banks.Decrease(ctx, bankID, amount)
		}
		if err != nil {
			return err
		}

		if err := s.repo.Insert(ctx, e); err != nil {
			return fmt.Errorf("insert ledger entry: %w", err)
		}

		return s.publisher.Publish(ctx, events.Event{
			AggregateType: "transaction",
			AggregateID:   e.ID,
			EventType:     events.ManualRecorded,
			Payload:       e,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "manual transaction recorded",
		"id", e.ID, "bank_id", bankID, "type", t, "amount", amount.String())
	return e, nil
}

// RemoveManual deletes a manual entry and reverses its effect on the bank.
// Reversing an income needs the money to still be there.
// Returns false if the entry does not exist.
func (s *Service) RemoveManual(ctx context.Context, entryID id.ID) (bool, error) {
	var removed bool
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		e, err := s.repo.GetByID(ctx, entryID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return nil
			}
			return err
		}
		if !e.IsManual() {
			return apperror.NewBusinessRule(apperror.CodeAutomaticEntry,
				"generated entries are removed by undoing the operation that created them").
				WithDetail("id", entryID.String()).
				WithDetail("origin_kind", string(e.OriginKind))
		}

		switch e.Type {
		case TypeIncome:
			err = s.banks.Decrease(ctx, e.BankID, e.Amount)
		case TypeWithdrawal:
			err = s.banks.Increase(ctx, e.BankID, e.Amount)
		default:
			err = apperror.NewValidation("unsupported manual transaction type").
				WithDetail("type", string(e.Type))
		}
		if err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, entryID); err != nil {
			return fmt.Errorf("delete ledger entry: %w", err)
		}
		if err := s.audit.Record(ctx, "transaction", entryID, audit.ActionDelete, e); err != nil {
			return err
		}
		if err := s.publisher.Publish(ctx, events.Event{
			AggregateType: "transaction",
			AggregateID:   entryID,
			EventType:     events.ManualRemoved,
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
		logger.Info(ctx, "manual transaction removed", "id", entryID)
	}
	return removed, nil
}

// GetByID returns one entry.
func (s *Service) GetByID(ctx context.Context, entryID id.ID) (*Entry, error) {
	return s.repo.GetByID(ctx, entryID)
}

// List returns ledger entries, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[Entry], error) {
	filter.ListFilter = filter.ListFilter.Normalize()
	return s.repo.List(ctx, filter)
}
