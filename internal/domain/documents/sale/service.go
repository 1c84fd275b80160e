package sale

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
	"ledgerpos/internal/domain/profit"
	"ledgerpos/internal/domain/registers/balance"
	"ledgerpos/internal/domain/registers/inventory"
	"ledgerpos/pkg/logger"
)

// Service is the sale reconciliation engine.
type Service struct {
	repo      Repository
	clients   counterparty.Repository
	profits   profit.Repository
	stock     *inventory.Adjuster
	books     *documents.Books
	audit     *audit.Recorder
	publisher events.Publisher
	txManager tx.Manager
}

// ServiceConfig lists the collaborators of the engine.
type ServiceConfig struct {
	Repo      Repository
	Clients   counterparty.Repository
	Payments  payment.Repository
	Profits   profit.Repository
	Stock     *inventory.Adjuster
	Banks     *balance.Bank
	Credit    balance.CreditTarget
	Ledger    *ledger.Ledger
	Audit     *audit.Recorder
	Publisher events.Publisher
	TxManager tx.Manager
}

// NewService creates a new sale engine.
func NewService(cfg ServiceConfig) *Service {
	pub := cfg.Publisher
	if pub == nil {
		pub = events.Discard{}
	}
	return &Service{
		repo:    cfg.Repo,
		clients: cfg.Clients,
		profits: cfg.Profits,
		stock:   cfg.Stock,
		books: &documents.Books{
			Entity:    Entity,
			Side:      status.SaleSide,
			Inflow:    true,
			EntryType: ledger.TypeSalePayment,
			Origin:    ledger.OriginSale,
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

// Create records a sale and, in the same unit of work, takes the goods out of
// stock, books the money (bank for cash, client credit otherwise) and stores the profit.
func (s *Service) Create(ctx context.Context, in CreateInput) (*View, error) {
	if err := documents.ValidateCart(in.Lines); err != nil {
		return nil, err
	}

	doc := NewSale(in.ClientID, in.BankID, in.Status)
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	var view *View
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		client, err := s.clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		bank, err := s.books.Banks.Account(ctx, in.BankID)
		if err != nil {
			return err
		}
		products, err := s.stock.CheckAvailability(ctx, documents.Reservations(in.Lines))
		if err != nil {
			return err
		}

		lines, total := documents.BuildLines(doc.ID, in.Lines)
		doc.SetTotal(total)
		doc.Lines = lines

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		for _, l := range lines {
			if err := s.stock.Decrease(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}
		if err := s.books.Open(ctx, &doc.Document, doc.ClientID); err != nil {
			return err
		}

		items := make([]profit.Item, 0, len(lines))
		for _, l := range lines {
			items = append(items, profit.Item{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				SalePrice: l.UnitPrice,
				CostPrice: products[l.ProductID].PurchasePrice,
			})
		}
		rec, profitLines := profit.Compute(doc.ID, items)
		if err := s.profits.Save(ctx, &rec, profitLines); err != nil {
			return fmt.Errorf("save profit: %w", err)
		}

		if err := s.publisher.Publish(ctx, events.Event{
			AggregateType: Entity,
			AggregateID:   doc.ID,
			EventType:     events.SaleCreated,
			Payload:       doc,
		}); err != nil {
			return err
		}

		view = &View{
			Sale:       doc,
			ClientName: client.Name,
			BankName:   bank.Name,
			StatusName: s.books.Label(&doc.Document),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale created",
		"id", doc.ID, "status", doc.Status, "total", doc.Total.String(), "lines", len(doc.Lines))
	return view, nil
}

// Delete undoes a sale: stock comes back, the money is taken back from the bank
// (the cash total, or every payment received on credit), the client credit is
// released and profit, payments, ledger entries and lines are removed.
func (s *Service) Delete(ctx context.Context, saleID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		lines, err := s.repo.GetLines(ctx, saleID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}
		doc.Lines = lines

		for _, l := range lines {
			if err := s.stock.Increase(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}

		payments, err := s.books.Close(ctx, &doc.Document, doc.ClientID)
		if err != nil {
			return err
		}
		if err := s.profits.DeleteBySale(ctx, saleID); err != nil {
			return fmt.Errorf("delete profit: %w", err)
		}
		if err := s.repo.Delete(ctx, saleID); err != nil {
			return fmt.Errorf("delete sale: %w", err)
		}

		snapshot := map[string]any{"sale": doc, "payments": payments}
		if err := s.audit.Record(ctx, Entity, saleID, audit.ActionDelete, snapshot); err != nil {
			return err
		}
		return s.publisher.Publish(ctx, events.Event{
			AggregateType: Entity,
			AggregateID:   saleID,
			EventType:     events.SaleDeleted,
			Payload:       snapshot,
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sale deleted", "id", saleID)
	return nil
}

// GetByID returns a sale with its lines and display names.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*View, error) {
	var view *View
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		lines, err := s.repo.GetLines(ctx, saleID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}
		doc.Lines = lines

		view, err = s.view(ctx, doc)
		return err
	})
	return view, err
}

// List returns one page of sales, newest first, without lines.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[View], error) {
	var out domain.ListResult[View]
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		res, err := s.repo.List(ctx, filter.Normalize())
		if err != nil {
			return err
		}
		out, err = documents.MapPage(res, func(doc *Sale) (*View, error) {
			return s.view(ctx, doc)
		})
		return err
	})
	return out, err
}

func (s *Service) view(ctx context.Context, doc *Sale) (*View, error) {
	clientName, err := documents.ResolveName(ctx, func(ctx context.Context) (string, error) {
		c, err := s.clients.GetByID(ctx, doc.ClientID)
		if err != nil {
			return "", err
		}
		return c.Name, nil
	})
	if err != nil {
		return nil, err
	}
	bankName, err := s.books.BankName(ctx, doc.BankID)
	if err != nil {
		return nil, err
	}

	return &View{
		Sale:       doc,
		ClientName: clientName,
		BankName:   bankName,
		StatusName: s.books.Label(&doc.Document),
	}, nil
}
