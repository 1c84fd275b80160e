package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/types"
	"ledgerpos/internal/domain"
	"ledgerpos/internal/domain/catalogs/bank"
	"ledgerpos/internal/domain/catalogs/product"
)

func seedProduct(t *testing.T, s *Store, qty int64) *product.Product {
	t.Helper()
	p := product.NewProduct("P", "product", types.MustMoney("5"), types.MustMoney("8"))
	p.Quantity = qty
	require.NoError(t, s.Products().Create(context.Background(), p))
	return p
}

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	p := seedProduct(t, s, 10)

	boom := errors.New("boom")
	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		applied, err := s.Products().AdjustQuantity(ctx, p.ID, -4)
		require.NoError(t, err)
		require.True(t, applied)
		require.NoError(t, s.Banks().Create(ctx, bank.NewAccount("Main", types.MustMoney("1"))))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity)

	banks, err := s.Banks().List(ctx, domain.DefaultListFilter())
	require.NoError(t, err)
	assert.Zero(t, banks.TotalCount)
}

func TestRunInTransaction_RollsBackOnPanic(t *testing.T) {
	s := New()
	ctx := context.Background()
	p := seedProduct(t, s, 10)

	assert.Panics(t, func() {
		_ = s.RunInTransaction(ctx, func(ctx context.Context) error {
			_, _ = s.Products().AdjustQuantity(ctx, p.ID, -4)
			panic("boom")
		})
	})

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity)
}

func TestRunInTransaction_NestedCallsJoin(t *testing.T) {
	s := New()
	ctx := context.Background()
	p := seedProduct(t, s, 10)

	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.RunInTransaction(ctx, func(ctx context.Context) error {
			_, err := s.Products().AdjustQuantity(ctx, p.ID, -3)
			return err
		}); err != nil {
			return err
		}
		return apperror.NewValidation("outer fails")
	})
	require.Error(t, err)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity, "inner work is undone with the outer unit")
}

func TestReadOnly_SeesStateAndDiscardsWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	p := seedProduct(t, s, 10)

	err := s.ReadOnly(ctx, func(ctx context.Context) error {
		got, err := s.Products().GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), got.Quantity)

		_, err = s.Products().AdjustQuantity(ctx, p.ID, -4)
		return err
	})
	require.NoError(t, err)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity)
}

func TestAdjustQuantity_Guard(t *testing.T) {
	s := New()
	ctx := context.Background()
	p := seedProduct(t, s, 2)

	applied, err := s.Products().AdjustQuantity(ctx, p.ID, -3)
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = s.Products().AdjustQuantity(ctx, p.ID, -2)
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Quantity)
}

func TestAdjustBalance_Guard(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := bank.NewAccount("Main", types.MustMoney("10"))
	require.NoError(t, s.Banks().Create(ctx, a))

	applied, err := s.Banks().AdjustBalance(ctx, a.ID, types.MustMoney("-10.01"))
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = s.Banks().AdjustBalance(ctx, a.ID, types.MustMoney("-10"))
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestProducts_DuplicateReference(t *testing.T) {
	s := New()
	seedProduct(t, s, 1)

	dup := product.NewProduct("P", "again", types.MustMoney("1"), types.MustMoney("2"))
	err := s.Products().Create(context.Background(), dup)
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	p := seedProduct(t, s, 5)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Quantity = 99

	again, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), again.Quantity)
}
