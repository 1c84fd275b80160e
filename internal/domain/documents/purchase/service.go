package purchase

import (
	"context"
	"fmt"

	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/status"
	"ledgerpos/internal/core/tx"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/audit"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/documents"
	"ledgerpos/internal/domain/events"
	"ledgerpos/internal/domain/ledger"
	"ledgerpos/internal/domain/payment"
	"ledgerpos/internal/domain/registers/balance"
	"ledgerpos/internal/domain/registers/inventory"
	"ledgerpos/pkg/logger"
)

// Service is the purchase reconciliation engine.
type Service struct {
	repo      Repository
	providers counterparty.Repository
	stock     *inventory.Adjuster
	books     *documents.Books
	audit     *audit.Recorder
	publisher events.Publisher
	txManager tx.Manager
}

// ServiceConfig lists the collaborators of the engine.
type ServiceConfig struct {
	Repo      Repository
	Providers counterparty.Repository
	Payments  payment.Repository
	Stock     *inventory.Adjuster
	Banks     *balance.Bank
	Credit    balance.CreditTarget
	Ledger    *ledger.Ledger
	Audit     *audit.Recorder
	Publisher events.Publisher
	TxManager tx.Manager
}

// NewService creates a new purchase engine.
func NewService(cfg ServiceConfig) *Service {
	pub := cfg.Publisher
	if pub == nil {
		pub = events.Discard{}
	}
	return &Service{
		repo:      cfg.Repo,
		providers: cfg.Providers,
		stock:     cfg.Stock,
		books: &documents.Books{
			Entity:    Entity,
			Side:      status.PurchaseSide,
			Inflow:    false,
			EntryType: ledger.TypePurchasePayment,
			Origin:    ledger.OriginPurchase,
			Banks:     cfg.Banks,
			Credit:    cfg.Credit,
			Ledger:    cfg.Ledger,
			Payments:  cfg.Payments,
		},
		audit:     cfg.Audit,
		publisher: pub,
		txManager: cfg.TxManager,
	}
}

// Create records a purchase, puts the goods into stock and books the money:
// paid out of the bank for cash (InsufficientFunds if it cannot cover the total),
// owed to the provider on credit.
func (s *Service) Create(ctx context.Context, in CreateInput) (*View, error) {
	if err := documents.ValidateCart(in.Lines); err != nil {
		return nil, err
	}

	doc := NewPurchase(in.ProviderID, in.BankID, in.Status)
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	var view *View
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		provider, err := s.providers.GetByID(ctx, in.ProviderID)
		if err != nil {
			return err
		}
		bank, err := s.books.Banks.Account(ctx, in.BankID)
		if err != nil {
			return err
		}
		if _, err := s.stock.Load(ctx, documents.Reservations(in.Lines)); err != nil {
			return err
		}

		lines, total := documents.BuildLines(doc.ID, in.Lines)
		doc.SetTotal(total)
		doc.Lines = lines

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		for _, l := range lines {
			if err := s.stock.Increase(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}
		if err := s.books.Open(ctx, &doc.Document, doc.ProviderID); err != nil {
			return err
		}

		if err := s.publisher.Publish(ctx, events.Event{
			AggregateType: Entity,
			AggregateID:   doc.ID,
			EventType:     events.PurchaseCreated,
			Payload:       doc,
		}); err != nil {
			return err
		}

		view = &View{
			Purchase:     doc,
			ProviderName: provider.Name,
			BankName:     bank.Name,
			StatusName:   s.books.Label(&doc.Document),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase created",
		"id", doc.ID, "status", doc.Status, "total", doc.Total.String(), "lines", len(doc.Lines))
	return view, nil
}

// Delete undoes a purchase. The goods leave stock again, which fails with
// InsufficientStock if they were already sold. Money paid out (the cash total
// or every credit payment) returns to the bank and the provider credit is released.
func (s *Service) Delete(ctx context.Context, purchaseID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}
		lines, err := s.repo.GetLines(ctx, purchaseID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}
		doc.Lines = lines

		for _, l := range lines {
			if err := s.stock.Decrease(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}

		payments, err := s.books.Close(ctx, &doc.Document, doc.ProviderID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, purchaseID); err != nil {
			return fmt.Errorf("delete purchase: %w", err)
		}

		snapshot := map[string]any{"purchase": doc, "payments": payments}
		if err := s.audit.Record(ctx, Entity, purchaseID, audit.ActionDelete, snapshot); err != nil {
			return err
		}
		return s.publisher.Publish(ctx, events.Event{
			AggregateType: Entity,
			AggregateID:   purchaseID,
			EventType:     events.PurchaseDeleted,
			Payload:       snapshot,
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase deleted", "id", purchaseID)
	return nil
}

// GetByID returns a purchase with its lines and display names.
func (s *Service) GetByID(ctx context.Context, purchaseID id.ID) (*View, error) {
	var view *View
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetByID(ctx, purchaseID)
		if err != nil {
			return err
		}
		lines, err := s.repo.GetLines(ctx, purchaseID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}
		doc.Lines = lines

		view, err = s.view(ctx, doc)
		return err
	})
	return view, err
}

// List returns one page of purchases, newest first, without lines.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[View], error) {
	var out domain.ListResult[View]
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		res, err := s.repo.List(ctx, filter.Normalize())
		if err != nil {
			return err
		}
		out, err = documents.MapPage(res, func(doc *Purchase) (*View, error) {
			return s.view(ctx, doc)
		})
		return err
	})
	return out, err
}

func (s *Service) view(ctx context.Context, doc *Purchase) (*View, error) {
	providerName, err := documents.ResolveName(ctx, func(ctx context.Context) (string, error) {
		p, err := s.providers.GetByID(ctx, doc.ProviderID)
		if err != nil {
			return "", err
		}
		return p.Name, nil
	})
	if err != nil {
		return nil, err
	}
	bankName, err := s.books.BankName(ctx, doc.BankID)
	if err != nil {
		return nil, err
	}

	return &View{
		Purchase:     doc,
		ProviderName: providerName,
		BankName:     bankName,
		StatusName:   s.books.Label(&doc.Document),
	}, nil
}
