// Package memory is an in-memory implementation of every repository and of the
// unit of work. A unit of work holds the store lock for its whole duration and
// restores a snapshot taken at its start if it fails, so it gives the same
// all-or-nothing guarantee as a database transaction (serializable, in fact).
// It backs the tests and the STORE=memory development mode.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/catalogs/bank"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/product"
	"ledgerpos/internal/domain/documents/purchase"
	"ledgerpos/internal/domain/documents/sale"
	"ledgerpos/internal/domain/events"
	"ledgerpos/internal/domain/expense"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/payment"
	"ledgerpos/internal/domain/profit"
)

// Store holds all records in maps guarded by one mutex.
type Store struct {
	mu    sync.Mutex
	state *state
}

type state struct {
	products  map[id.ID]product.Product
	banks     map[id.ID]bank.Account
	clients   map[id.ID]counterparty.Counterparty
	providers map[id.ID]counterparty.Counterparty

	sales         map[id.ID]sale.Sale
	saleLines     map[id.ID][]entity.Line
	purchases     map[id.ID]purchase.Purchase
	purchaseLines map[id.ID][]entity.Line

	salePayments     map[id.ID]payment.Payment
	purchasePayments map[id.ID]payment.Payment

	profits     map[id.ID]profit.Record // by sale id
	profitLines map[id.ID][]profit.Line // by sale id

	entries  map[id.ID]ledger.Entry
	expenses map[id.ID]expense.Expense

	audit  []audit.Entry
	outbox []events.Event
}

// New creates an empty store.
func New() *Store {
	return &Store{state: newState()}
}

func newState() *state {
	return &state{
		products:         make(map[id.ID]product.Product),
		banks:            make(map[id.ID]bank.Account),
		clients:          make(map[id.ID]counterparty.Counterparty),
		providers:        make(map[id.ID]counterparty.Counterparty),
		sales:            make(map[id.ID]sale.Sale),
		saleLines:        make(map[id.ID][]entity.Line),
		purchases:        make(map[id.ID]purchase.Purchase),
		purchaseLines:    make(map[id.ID][]entity.Line),
		salePayments:     make(map[id.ID]payment.Payment),
		purchasePayments: make(map[id.ID]payment.Payment),
		profits:          make(map[id.ID]profit.Record),
		profitLines:      make(map[id.ID][]profit.Line),
		entries:          make(map[id.ID]ledger.Entry),
		expenses:         make(map[id.ID]expense.Expense),
	}
}

func (s *state) clone() *state {
	c := &state{
		products:         cloneMap(s.products),
		banks:            cloneMap(s.banks),
		clients:          cloneMap(s.clients),
		providers:        cloneMap(s.providers),
		sales:            cloneMap(s.sales),
		saleLines:        cloneSliceMap(s.saleLines),
		purchases:        cloneMap(s.purchases),
		purchaseLines:    cloneSliceMap(s.purchaseLines),
		salePayments:     cloneMap(s.salePayments),
		purchasePayments: cloneMap(s.purchasePayments),
		profits:          cloneMap(s.profits),
		profitLines:      cloneSliceMap(s.profitLines),
		entries:          cloneMap(s.entries),
		expenses:         cloneMap(s.expenses),
		audit:            append([]audit.Entry(nil), s.audit...),
		outbox:           append([]events.Event(nil), s.outbox...),
	}
	return c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSliceMap[K comparable, V any](m map[K][]V) map[K][]V {
	out := make(map[K][]V, len(m))
	for k, v := range m {
		out[k] = append([]V(nil), v...)
	}
	return out
}

// --- unit of work ---

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// RunInTransaction implements tx.Manager. A call inside a running unit joins it.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	defer func() {
		if p := recover(); p != nil {
			s.state = snapshot
			panic(p)
		}
		if err != nil {
			s.state = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}

// ReadOnly implements tx.Manager. Inside a running unit fn joins it; otherwise fn
// holds the store lock and any write it makes is discarded.
func (s *Store) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	defer func() { s.state = snapshot }()

	return fn(context.WithValue(ctx, txKey{}, s))
}

// do runs fn against the state, taking the lock unless ctx already holds it.
func (s *Store) do(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(s.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// --- helpers ---

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// newestFirst sorts by creation time, then by id, both descending.
func newestFirst[T any](items []T, key func(T) (time.Time, id.ID)) {
	sort.Slice(items, func(i, j int) bool {
		ti, ii := key(items[i])
		tj, ij := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return ii.String() > ij.String()
	})
}

// Events returns the domain events published so far, oldest first.
func (s *Store) Events() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.Event(nil), s.state.outbox...)
}

var _ tx.Manager = (*Store)(nil)
