package memory

import (
	"context"
	"sort"
	"time"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/events"
	"ledgerpos/internal/domain/expense"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/payment"
	"ledgerpos/internal/domain/profit"
)

// --- payments ---

// PaymentRepo implements payment.Repository for one side.
type PaymentRepo struct {
	s     *Store
	table func(*state) map[id.ID]payment.Payment
}

// SalePayments returns the repository of payments received for sales.
func (s *Store) SalePayments() *PaymentRepo {
	return &PaymentRepo{s: s, table: func(st *state) map[id.ID]payment.Payment { return st.salePayments }}
}

// PurchasePayments returns the repository of payments made for purchases.
func (s *Store) PurchasePayments() *PaymentRepo {
	return &PaymentRepo{s: s, table: func(st *state) map[id.ID]payment.Payment { return st.purchasePayments }}
}

func (r *PaymentRepo) Insert(ctx context.Context, p *payment.Payment) error {
	return r.s.do(ctx, func(st *state) error {
		r.table(st)[p.ID] = *p
		return nil
	})
}

func (r *PaymentRepo) GetByID(ctx context.Context, paymentID id.ID) (*payment.Payment, error) {
	var out payment.Payment
	err := r.s.do(ctx, func(st *state) error {
		p, ok := r.table(st)[paymentID]
		if !ok {
			return apperror.NewNotFound("payment", paymentID)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *PaymentRepo) ListByDocument(ctx context.Context, documentID id.ID) ([]payment.Payment, error) {
	out := []payment.Payment{}
	_ = r.s.do(ctx, func(st *state) error {
		for _, p := range r.table(st) {
			if p.DocumentID == documentID {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *PaymentRepo) Delete(ctx context.Context, paymentID id.ID) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := r.table(st)[paymentID]; !ok {
			return apperror.NewNotFound("payment", paymentID)
		}
		delete(r.table(st), paymentID)
		return nil
	})
}

func (r *PaymentRepo) DeleteByDocument(ctx context.Context, documentID id.ID) (int64, error) {
	var n int64
	err := r.s.do(ctx, func(st *state) error {
		t := r.table(st)
		for pid, p := range t {
			if p.DocumentID == documentID {
				delete(t, pid)
				n++
			}
		}
		return nil
	})
	return n, err
}

// --- profit ---

// ProfitRepo implements profit.Repository.
type ProfitRepo struct{ s *Store }

// Profits returns the profit repository.
func (s *Store) Profits() *ProfitRepo { return &ProfitRepo{s: s} }

func (r *ProfitRepo) Save(ctx context.Context, rec *profit.Record, lines []profit.Line) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.profits[rec.SaleID]; ok {
			return apperror.NewDuplicate("profit record", "saleId", rec.SaleID.String())
		}
		st.profits[rec.SaleID] = *rec
		st.profitLines[rec.SaleID] = append([]profit.Line(nil), lines...)
		return nil
	})
}

func (r *ProfitRepo) GetBySale(ctx context.Context, saleID id.ID) (*profit.Record, []profit.Line, error) {
	var (
		rec   profit.Record
		lines []profit.Line
	)
	err := r.s.do(ctx, func(st *state) error {
		var ok bool
		rec, ok = st.profits[saleID]
		if !ok {
			return apperror.NewNotFound("profit record", saleID)
		}
		lines = append([]profit.Line{}, st.profitLines[saleID]...)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &rec, lines, nil
}

func (r *ProfitRepo) DeleteBySale(ctx context.Context, saleID id.ID) error {
	return r.s.do(ctx, func(st *state) error {
		delete(st.profits, saleID)
		delete(st.profitLines, saleID)
		return nil
	})
}

func (r *ProfitRepo) List(ctx context.Context, filter profit.ListFilter) (domain.ListResult[profit.Record], error) {
	var all []profit.Record
	_ = r.s.do(ctx, func(st *state) error {
		for _, rec := range st.profits {
			if !filter.From.IsZero() && rec.CreatedAt.Before(filter.From) {
				continue
			}
			if !filter.To.IsZero() && rec.CreatedAt.After(filter.To) {
				continue
			}
			all = append(all, rec)
		}
		return nil
	})
	newestFirst(all, func(rec profit.Record) (time.Time, id.ID) { return rec.CreatedAt, rec.ID })
	return domain.Window(all, filter.ListFilter), nil
}

// --- ledger ---

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct{ s *Store }

// Ledger returns the ledger repository.
func (s *Store) Ledger() *LedgerRepo { return &LedgerRepo{s: s} }

func (r *LedgerRepo) Insert(ctx context.Context, e *ledger.Entry) error {
	return r.s.do(ctx, func(st *state) error {
		st.entries[e.ID] = *e
		return nil
	})
}

func (r *LedgerRepo) GetByID(ctx context.Context, entryID id.ID) (*ledger.Entry, error) {
	var out ledger.Entry
	err := r.s.do(ctx, func(st *state) error {
		e, ok := st.entries[entryID]
		if !ok {
			return apperror.NewNotFound("transaction", entryID)
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LedgerRepo) FindByOrigin(ctx context.Context, kind ledger.OriginKind, originID id.ID) ([]ledger.Entry, error) {
	out := []ledger.Entry{}
	_ = r.s.do(ctx, func(st *state) error {
		for _, e := range st.entries {
			if e.OriginKind == kind && e.OriginID == originID {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, nil
}

func (r *LedgerRepo) DeleteByOrigin(ctx context.Context, kind ledger.OriginKind, originID id.ID) (int64, error) {
	return r.deleteWhere(ctx, func(e ledger.Entry) bool {
		return e.OriginKind == kind && e.OriginID == originID
	})
}

func (r *LedgerRepo) DeleteByDocument(ctx context.Context, documentID id.ID) (int64, error) {
	return r.deleteWhere(ctx, func(e ledger.Entry) bool {
		return e.DocumentID != nil && *e.DocumentID == documentID
	})
}

func (r *LedgerRepo) deleteWhere(ctx context.Context, match func(ledger.Entry) bool) (int64, error) {
	var n int64
	err := r.s.do(ctx, func(st *state) error {
		for eid, e := range st.entries {
			if match(e) {
				delete(st.entries, eid)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *LedgerRepo) Delete(ctx context.Context, entryID id.ID) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.entries[entryID]; !ok {
			return apperror.NewNotFound("transaction", entryID)
		}
		delete(st.entries, entryID)
		return nil
	})
}

func (r *LedgerRepo) List(ctx context.Context, filter ledger.ListFilter) (domain.ListResult[ledger.Entry], error) {
	var all []ledger.Entry
	_ = r.s.do(ctx, func(st *state) error {
		for _, e := range st.entries {
			if filter.BankID != nil && e.BankID != *filter.BankID {
				continue
			}
			if filter.Type != nil && e.Type != *filter.Type {
				continue
			}
			if !matches(filter.Search, e.Description) {
				continue
			}
			all = append(all, e)
		}
		return nil
	})
	newestFirst(all, func(e ledger.Entry) (time.Time, id.ID) { return e.CreatedAt, e.ID })
	return domain.Window(all, filter.ListFilter), nil
}

// --- expenses ---

// ExpenseRepo implements expense.Repository.
type ExpenseRepo struct{ s *Store }

// Expenses returns the expense repository.
func (s *Store) Expenses() *ExpenseRepo { return &ExpenseRepo{s: s} }

func (r *ExpenseRepo) Insert(ctx context.Context, e *expense.Expense) error {
	return r.s.do(ctx, func(st *state) error {
		st.expenses[e.ID] = *e
		return nil
	})
}

func (r *ExpenseRepo) GetByID(ctx context.Context, expenseID id.ID) (*expense.Expense, error) {
	var out expense.Expense
	err := r.s.do(ctx, func(st *state) error {
		e, ok := st.expenses[expenseID]
		if !ok {
			return apperror.NewNotFound("expense", expenseID)
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ExpenseRepo) Delete(ctx context.Context, expenseID id.ID) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.expenses[expenseID]; !ok {
			return apperror.NewNotFound("expense", expenseID)
		}
		delete(st.expenses, expenseID)
		return nil
	})
}

func (r *ExpenseRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[expense.Expense], error) {
	var all []expense.Expense
	_ = r.s.do(ctx, func(st *state) error {
		for _, e := range st.expenses {
			if matches(filter.Search, e.Category, e.Description) {
				all = append(all, e)
			}
		}
		return nil
	})
	newestFirst(all, func(e expense.Expense) (time.Time, id.ID) { return e.CreatedAt, e.ID })
	return domain.Window(all, filter), nil
}

// --- audit and outbox ---

// AuditRepo implements audit.Store.
type AuditRepo struct{ s *Store }

// Audit returns the audit store.
func (s *Store) Audit() *AuditRepo { return &AuditRepo{s: s} }

func (r *AuditRepo) Insert(ctx context.Context, e *audit.Entry) error {
	return r.s.do(ctx, func(st *state) error {
		st.audit = append(st.audit, *e)
		return nil
	})
}

func (r *AuditRepo) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]audit.Entry, error) {
	out := []audit.Entry{}
	_ = r.s.do(ctx, func(st *state) error {
		for i := len(st.audit) - 1; i >= 0 && len(out) < limit; i-- {
			if e := st.audit[i]; e.EntityType == entityType && e.EntityID == entityID {
				out = append(out, e)
			}
		}
		return nil
	})
	return out, nil
}

// Publish implements events.Publisher by appending to the in-memory outbox.
func (s *Store) Publish(ctx context.Context, event events.Event) error {
	return s.do(ctx, func(st *state) error {
		st.outbox = append(st.outbox, event)
		return nil
	})
}

var (
	_ payment.Repository = (*PaymentRepo)(nil)
	_ profit.Repository  = (*ProfitRepo)(nil)
	_ ledger.Repository  = (*LedgerRepo)(nil)
	_ expense.Repository = (*ExpenseRepo)(nil)
	_ audit.Store        = (*AuditRepo)(nil)
	_ events.Publisher   = (*Store)(nil)
)
