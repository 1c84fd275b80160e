// Package main seeds a database with demo catalog data: bank accounts,
// products, clients and providers. Records that already exist are skipped.
package main

import (
	"context"
	"fmt"
	"os"

	"ledgerpos/internal/app"
	"ledgerpos/internal/config"
	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/catalogs/bank"
	"ledgerpos/internal/domain/catalogs/counterparty"
	"ledgerpos/internal/domain/catalogs/product"
	"ledgerpos/internal/infrastructure/storage/postgres"
	"ledgerpos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool, cfg.StatementTimeout)
	if err := postgres.Migrate(ctx, txManager); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}

	repos, err := app.PostgresRepositories(txManager)
	if err != nil {
		log.Fatalw("failed to build repositories", "error", err)
	}
	svc := app.New(repos)

	var created, skipped int
	count := func(what string, err error) {
		switch {
		case err == nil:
			created++
		case apperror.HasCode(err, apperror.CodeDuplicate):
			skipped++
		default:
			log.Fatalw("failed to seed", "record", what, "error", err)
		}
	}

	// Bank accounts have no natural key; only seed them into an empty table.
	banks, err := svc.Banks.List(ctx, domain.DefaultListFilter())
	if err != nil {
		log.Fatalw("failed to list bank accounts", "error", err)
	}
	if banks.TotalCount == 0 {
		for _, b := range []struct{ name, opening string }{
			{"Caja principal", "500000"},
			{"Banco de Bogota", "2000000"},
		} {
			count(b.name, svc.Banks.Create(ctx, bank.NewAccount(b.name, types.MustMoney(b.opening))))
		}
	}

	for _, p := range []struct {
		ref, desc, cost, price string
		qty                    int64
	}{
		{"CAF-500", "Cafe molido 500g", "9500", "14000", 40},
		{"AZU-1K", "Azucar 1kg", "3200", "4500", 60},
		{"ARR-1K", "Arroz 1kg", "2800", "3900", 80},
		{"ACE-1L", "Aceite 1L", "7800", "10500", 25},
	} {
		m := product.NewProduct(p.ref, p.desc, types.MustMoney(p.cost), types.MustMoney(p.price))
		m.Quantity = p.qty
		count(p.ref, svc.Products.Create(ctx, m))
	}

	for _, c := range []struct{ ext, name string }{
		{"CC-1010", "Maria Gomez"},
		{"CC-2020", "Tienda La Esquina"},
	} {
		count(c.ext, svc.Clients.Create(ctx, counterparty.New(counterparty.RoleClient, c.ext, c.name)))
	}
	for _, p := range []struct{ ext, name string }{
		{"NIT-900100", "Distribuidora Central"},
		{"NIT-900200", "Molinos del Valle"},
	} {
		count(p.ext, svc.Providers.Create(ctx, counterparty.New(counterparty.RoleProvider, p.ext, p.name)))
	}

	log.Infow("seeding completed", "created", created, "skipped", skipped)
}
