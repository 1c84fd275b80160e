package memory

import (
	"context"
	"sort"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/entity"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/catalogs/bank"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/product"
)

// --- products ---

// ProductRepo implements product.Repository.
type ProductRepo struct{ s *Store }

// Products returns the product repository.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	return r.s.do(ctx, func(st *state) error {
		for _, existing := range st.products {
			if existing.Reference == p.Reference {
				return apperror.NewDuplicate("product", "reference", p.Reference)
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	var out product.Product
	err := r.s.do(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return apperror.NewNotFound("product", productID)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ProductRepo) GetByReference(ctx context.Context, reference string) (*product.Product, error) {
	var out *product.Product
	err := r.s.do(ctx, func(st *state) error {
		for _, p := range st.products {
			if p.Reference == reference {
				out = &p
				return nil
			}
		}
		return apperror.NewNotFound("product", reference)
	})
	return out, err
}

func (r *ProductRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	var all []*product.Product
	_ = r.s.do(ctx, func(st *state) error {
		for _, p := range st.products {
			p := p // per-iteration copy; go.mod targets 1.21 loop semantics
			if matches(filter.Search, p.Reference, p.Description) {
				all = append(all, &p)
			}
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Reference < all[j].Reference })
	return domain.Window(all, filter), nil
}

func (r *ProductRepo) AdjustQuantity(ctx context.Context, productID id.ID, delta int64) (bool, error) {
	var applied bool
	err := r.s.do(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return apperror.NewNotFound("product", productID)
		}
		if p.Quantity+delta < 0 {
			return nil
		}
		p.Quantity += delta
		st.products[productID] = p
		applied = true
		return nil
	})
	return applied, err
}

func (r *ProductRepo) Update(ctx context.Context, productID id.ID, p *product.Product) error {
	return r.s.do(ctx, func(st *state) error {
		cur, ok := st.products[productID]
		if !ok {
			return apperror.NewNotFound("product", productID)
		}
		for otherID, existing := range st.products {
			if otherID != productID && existing.Reference == p.Reference {
				return apperror.NewDuplicate("product", "reference", p.Reference)
			}
		}
		cur.Reference = p.Reference
		cur.Description = p.Description
		cur.PurchasePrice = p.PurchasePrice
		cur.SalePrice = p.SalePrice
		cur.Active = p.Active
		st.products[productID] = cur
		return nil
	})
}

func (r *ProductRepo) Delete(ctx context.Context, productID id.ID) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.products[productID]; !ok {
			return apperror.NewNotFound("product", productID)
		}
		if hasProduct(st.saleLines, productID) || hasProduct(st.purchaseLines, productID) {
			return referenced("product", productID)
		}
		delete(st.products, productID)
		return nil
	})
}

func hasProduct(lines map[id.ID][]entity.Line, productID id.ID) bool {
	for _, doc := range lines {
		for _, l := range doc {
			if l.ProductID == productID {
				return true
			}
		}
	}
	return false
}

// referenced mirrors the Conflict the postgres repositories return on a
// foreign key violation.
func referenced(entityName string, entityID id.ID) error {
	return apperror.NewConflict("record is still referenced by other records").
		WithDetail("entity", entityName).
		WithDetail("id", entityID.String())
}

// --- bank accounts ---

// BankRepo implements bank.Repository.
type BankRepo struct{ s *Store }

// Banks returns the bank account repository.
func (s *Store) Banks() *BankRepo { return &BankRepo{s: s} }

func (r *BankRepo) Create(ctx context.Context, a *bank.Account) error {
	return r.s.do(ctx, func(st *state) error {
		st.banks[a.ID] = *a
		return nil
	})
}

func (r *BankRepo) GetByID(ctx context.Context, bankID id.ID) (*bank.Account, error) {
	var out bank.Account
	err := r.s.do(ctx, func(st *state) error {
		a, ok := st.banks[bankID]
		if !ok {
			return apperror.NewNotFound("bank account", bankID)
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *BankRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*bank.Account], error) {
	var all []*bank.Account
	_ = r.s.do(ctx, func(st *state) error {
		for _, a := range st.banks {
			a := a // per-iteration copy; go.mod targets 1.21 loop semantics
			if matches(filter.Search, a.Name) {
				all = append(all, &a)
			}
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return domain.Window(all, filter), nil
}

func (r *BankRepo) AdjustBalance(ctx context.Context, bankID id.ID, delta types.Money) (bool, error) {
	var applied bool
	err := r.s.do(ctx, func(st *state) error {
		a, ok := st.banks[bankID]
		if !ok {
			return apperror.NewNotFound("bank account", bankID)
		}
		next := a.Balance.Add(delta)
		if next.IsNegative() {
			return nil
		}
		a.Balance = next
		a.LastUpdate = entity.Now()
		st.banks[bankID] = a
		applied = true
		return nil
	})
	return applied, err
}

func (r *BankRepo) Delete(ctx context.Context, bankID id.ID) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.banks[bankID]; !ok {
			return apperror.NewNotFound("bank account", bankID)
		}
		delete(st.banks, bankID)
		return nil
	})
}

// --- clients and providers ---

// CounterpartyRepo implements counterparty.Repository for one role.
type CounterpartyRepo struct {
	s    *Store
	role counterparty.Role
}

// Clients returns the client repository.
func (s *Store) Clients() *CounterpartyRepo {
	return &CounterpartyRepo{s: s, role: counterparty.RoleClient}
}

// Providers returns the provider repository.
func (s *Store) Providers() *CounterpartyRepo {
	return &CounterpartyRepo{s: s, role: counterparty.RoleProvider}
}

func (r *CounterpartyRepo) table(st *state) map[id.ID]counterparty.Counterparty {
	if r.role == counterparty.RoleProvider {
		return st.providers
	}
	return st.clients
}

func (r *CounterpartyRepo) Create(ctx context.Context, c *counterparty.Counterparty) error {
	return r.s.do(ctx, func(st *state) error {
		t := r.table(st)
		for _, existing := range t {
			if existing.ExternalID == c.ExternalID {
				return apperror.NewDuplicate(r.role.EntityName(), "externalId", c.ExternalID)
			}
		}
		c.Role = r.role
		t[c.ID] = *c
		return nil
	})
}

func (r *CounterpartyRepo) GetByID(ctx context.Context, counterpartyID id.ID) (*counterparty.Counterparty, error) {
	var out counterparty.Counterparty
	err := r.s.do(ctx, func(st *state) error {
		c, ok := r.table(st)[counterpartyID]
		if !ok {
			return apperror.NewNotFound(r.role.EntityName(), counterpartyID)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *CounterpartyRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*counterparty.Counterparty], error) {
	var all []*counterparty.Counterparty
	_ = r.s.do(ctx, func(st *state) error {
		for _, c := range r.table(st) {
			c := c // per-iteration copy; go.mod targets 1.21 loop semantics
			if matches(filter.Search, c.Name, c.ExternalID) {
				all = append(all, &c)
			}
		}
		return nil
	})
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return domain.Window(all, filter), nil
}

func (r *CounterpartyRepo) Update(ctx context.Context, counterpartyID id.ID, c *counterparty.Counterparty) error {
	return r.s.do(ctx, func(st *state) error {
		t := r.table(st)
		cur, ok := t[counterpartyID]
		if !ok {
			return apperror.NewNotFound(r.role.EntityName(), counterpartyID)
		}
		for otherID, existing := range t {
			if otherID != counterpartyID && existing.ExternalID == c.ExternalID {
				return apperror.NewDuplicate(r.role.EntityName(), "externalId", c.ExternalID)
			}
		}
		cur.ExternalID = c.ExternalID
		cur.Name = c.Name
		cur.Address = c.Address
		cur.City = c.City
		cur.Phone = c.Phone
		cur.Email = c.Email
		t[counterpartyID] = cur
		return nil
	})
}

func (r *CounterpartyRepo) Delete(ctx context.Context, counterpartyID id.ID) error {
	return r.s.do(ctx, func(st *state) error {
		t := r.table(st)
		if _, ok := t[counterpartyID]; !ok {
			return apperror.NewNotFound(r.role.EntityName(), counterpartyID)
		}
		if r.hasDocuments(st, counterpartyID) {
			return referenced(r.role.EntityName(), counterpartyID)
		}
		delete(t, counterpartyID)
		return nil
	})
}

func (r *CounterpartyRepo) hasDocuments(st *state, counterpartyID id.ID) bool {
	if r.role == counterparty.RoleProvider {
		for _, p := range st.purchases {
			if p.ProviderID == counterpartyID {
				return true
			}
		}
		return false
	}
	for _, s := range st.sales {
		if s.ClientID == counterpartyID {
			return true
		}
	}
	return false
}

func (r *CounterpartyRepo) IncreaseBalance(ctx context.Context, counterpartyID id.ID, amount types.Money) error {
	return r.s.do(ctx, func(st *state) error {
		t := r.table(st)
		c, ok := t[counterpartyID]
		if !ok {
			return apperror.NewNotFound(r.role.EntityName(), counterpartyID)
		}
		c.OutstandingBalance = c.OutstandingBalance.Add(amount)
		t[counterpartyID] = c
		return nil
	})
}

func (r *CounterpartyRepo) DecreaseBalance(ctx context.Context, counterpartyID id.ID, amount types.Money) (types.Money, error) {
	var removed types.Money
	err := r.s.do(ctx, func(st *state) error {
		t := r.table(st)
		c, ok := t[counterpartyID]
		if !ok {
			return apperror.NewNotFound(r.role.EntityName(), counterpartyID)
		}
		removed = types.Min(c.OutstandingBalance, amount)
		c.OutstandingBalance = c.OutstandingBalance.Sub(removed)
		t[counterpartyID] = c
		return nil
	})
	return removed, err
}

var (
	_ product.Repository      = (*ProductRepo)(nil)
	_ bank.Repository         = (*BankRepo)(nil)
	_ counterparty.Repository = (*CounterpartyRepo)(nil)
)
