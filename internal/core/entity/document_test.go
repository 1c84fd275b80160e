package entity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerpos/internal/core/apperror"
	"ledgerpos/internal/core/id"
	"ledgerpos/internal/core/status"
	"ledgerpos/internal/core/types"
)

func money(s string) types.Money { return types.MustMoney(s) }

func creditDocument(total string) Document {
	d := NewDocument(id.New(), status.Credit)
	d.SetTotal(money(total))
	return d
}

func TestSetTotal(t *testing.T) {
	credit := creditDocument("24")
	assert.True(t, credit.RemainingBalance.Equal(money("24")))

	cash := NewDocument(id.New(), status.Cash)
	cash.SetTotal(money("24"))
	assert.True(t, cash.RemainingBalance.IsZero())
}

func TestValidate(t *testing.T) {
	d := NewDocument(id.Nil(), status.Cash)
	assert.True(t, apperror.HasCode(d.Validate(context.Background()), apperror.CodeValidation))

	d = NewDocument(id.New(), status.Settled)
	assert.Error(t, d.Validate(context.Background()))

	d = NewDocument(id.New(), status.Credit)
	assert.NoError(t, d.Validate(context.Background()))
}

func TestCheckPayable_Order(t *testing.T) {
	cash := NewDocument(id.New(), status.Cash)
	cash.SetTotal(money("10"))
	err := cash.CheckPayable("sale", money("-1"))
	assert.True(t, apperror.HasCode(err, apperror.CodeOnlyCreditPayable), "status is checked before the amount")

	exhausted := creditDocument("10")
	exhausted.RemainingBalance = money("0")
	err = exhausted.CheckPayable("sale", money("-1"))
	assert.True(t, apperror.HasCode(err, apperror.CodeNoOutstandingBalance))

	open := creditDocument("10")
	assert.True(t, apperror.IsInvalidAmount(open.CheckPayable("sale", money("0"))))
	assert.True(t, apperror.IsInvalidAmount(open.CheckPayable("sale", money("10.01"))))
	assert.NoError(t, open.CheckPayable("sale", money("10")))
}

func TestCheckPayable_RejectsDigitsBeyondScale(t *testing.T) {
	d := creditDocument("24")
	assert.True(t, apperror.IsInvalidAmount(d.CheckPayable("sale", money("23.99999"))))
	assert.NoError(t, d.CheckPayable("sale", money("23.9999")))
}

func TestApplyAndRevertPayment(t *testing.T) {
	d := creditDocument("24")

	settled, err := d.ApplyPayment("sale", money("10"))
	require.NoError(t, err)
	assert.False(t, settled)
	assert.Equal(t, status.Credit, d.Status)

	settled, err = d.ApplyPayment("sale", money("14"))
	require.NoError(t, err)
	assert.True(t, settled)
	assert.Equal(t, status.Settled, d.Status)
	assert.True(t, d.RemainingBalance.IsZero())

	reopened, err := d.RevertPayment("sale", money("14"))
	require.NoError(t, err)
	assert.True(t, reopened)
	assert.Equal(t, status.Credit, d.Status)
	assert.True(t, d.RemainingBalance.Equal(money("14")))

	reopened, err = d.RevertPayment("sale", money("10"))
	require.NoError(t, err)
	assert.False(t, reopened)
	assert.True(t, d.RemainingBalance.Equal(d.Total))
}

func TestRevertPayment_Guards(t *testing.T) {
	d := creditDocument("24")
	_, err := d.RevertPayment("sale", money("1"))
	assert.True(t, apperror.HasCode(err, apperror.CodeBusinessRule), "cannot exceed the total")

	cash := NewDocument(id.New(), status.Cash)
	cash.SetTotal(money("24"))
	_, err = cash.RevertPayment("sale", money("1"))
	assert.Error(t, err)
}
