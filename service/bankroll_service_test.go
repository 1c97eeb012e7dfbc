package service

import (
	"context"
	"testing"

	"betledger/events"
	"betledger/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBankrollService_CreateBankroll(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks(ctx)
	m.expectCommit()
	m.allowEvents()

	svc := NewBankrollService(m.factory, "brl")
	newID := uuid.New()

	m.bankrollRepo.On("Create", ctx, mock.MatchedBy(func(b *models.Bankroll) bool {
		return b.Name == "Main bankroll" &&
			b.InitialBalance.Equal(dec("1000")) &&
			b.CurrentBalance.Equal(dec("1000")) &&
			b.Currency == "BRL" &&
			b.IsActive
	})).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Bankroll).ID = newID
	})
	m.historyRepo.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeInitial &&
			h.BankrollID == newID &&
			h.ChangeAmount.IsZero() &&
			h.BalanceAfter.Equal(dec("1000"))
	})).Return(nil)

	bankroll, err := svc.CreateBankroll(ctx, testUserID, models.CreateBankrollInput{
		Name:           "  Main bankroll ",
		InitialBalance: dec("1000"),
	})

	require.NoError(t, err)
	assert.Equal(t, newID, bankroll.ID)
	m.publisher.AssertCalled(t, "Publish", mock.MatchedBy(func(e events.Event) bool {
		ev, ok := e.(events.BankrollCreatedEvent)
		return ok && ev.BankrollID == newID
	}))
	m.assertExpectations(t)
}

func TestBankrollService_CreateBankroll_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input models.CreateBankrollInput
	}{
		{"short name", models.CreateBankrollInput{Name: "ab", InitialBalance: dec("10")}},
		{"zero balance", models.CreateBankrollInput{Name: "Main", InitialBalance: dec("0")}},
		{"negative balance", models.CreateBankrollInput{Name: "Main", InitialBalance: dec("-1")}},
		{"three decimal places", models.CreateBankrollInput{Name: "Main", InitialBalance: dec("10.001")}},
		{"bad currency", models.CreateBankrollInput{Name: "Main", InitialBalance: dec("10"), Currency: "EURO"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := new(MockUnitOfWorkFactory)
			svc := NewBankrollService(factory, "BRL")

			_, err := svc.CreateBankroll(context.Background(), testUserID, tt.input)

			assert.ErrorIs(t, err, ErrValidation)
			factory.AssertNotCalled(t, "Create")
		})
	}
}

func TestBankrollService_UpdateBankrollBalance(t *testing.T) {
	tests := []struct {
		name        string
		op          models.BalanceOperation
		amount      string
		wantBalance string
		wantChange  string
		wantTxType  models.TransactionType
	}{
		{"add deposits", models.BalanceOperationAdd, "250", "1250", "250", models.TransactionTypeDeposit},
		{"subtract withdraws", models.BalanceOperationSubtract, "400", "600", "-400", models.TransactionTypeWithdrawal},
		{"subtract to zero", models.BalanceOperationSubtract, "1000", "0", "-1000", models.TransactionTypeWithdrawal},
		{"set records delta", models.BalanceOperationSet, "700", "700", "-300", models.TransactionTypeBalanceSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m := newLedgerMocks(ctx)
			m.expectCommit()
			m.allowEvents()

			bankroll := newTestBankroll("1000")
			svc := NewBankrollService(m.factory, "BRL")

			m.bankrollRepo.On("GetForUpdate", ctx, testUserID, bankroll.ID).Return(bankroll, nil)
			m.bankrollRepo.On("UpdateBalance", ctx, bankroll.ID, decEq(tt.wantBalance)).Return(nil)
			m.historyRepo.On("Record", ctx, historyMatching(tt.wantTxType, "1000", tt.wantBalance, tt.wantChange)).Return(nil)

			updated, err := svc.UpdateBankrollBalance(ctx, testUserID, bankroll.ID, tt.op, dec(tt.amount))

			require.NoError(t, err)
			assert.True(t, updated.CurrentBalance.Equal(dec(tt.wantBalance)))
			m.assertExpectations(t)
		})
	}
}

func TestBankrollService_UpdateBankrollBalance_Overdraw(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks(ctx)

	bankroll := newTestBankroll("100")
	svc := NewBankrollService(m.factory, "BRL")

	m.bankrollRepo.On("GetForUpdate", ctx, testUserID, bankroll.ID).Return(bankroll, nil)

	_, err := svc.UpdateBankrollBalance(ctx, testUserID, bankroll.ID, models.BalanceOperationSubtract, dec("100.01"))

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, bankroll.CurrentBalance.Equal(dec("100")))
	m.bankrollRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
}

func TestBankrollService_UpdateBankrollBalance_InvalidInput(t *testing.T) {
	factory := new(MockUnitOfWorkFactory)
	svc := NewBankrollService(factory, "BRL")
	id := uuid.New()

	_, err := svc.UpdateBankrollBalance(context.Background(), testUserID, id, models.BalanceOperation("multiply"), dec("10"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateBankrollBalance(context.Background(), testUserID, id, models.BalanceOperationAdd, dec("-10"))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateBankrollBalance(context.Background(), testUserID, id, models.BalanceOperationSet, dec("0"))
	assert.ErrorIs(t, err, ErrValidation)

	factory.AssertNotCalled(t, "Create")
}

func TestBankrollService_DeleteBankroll(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes bankroll without bets", func(t *testing.T) {
		m := newLedgerMocks(ctx)
		m.expectCommit()
		bankroll := newTestBankroll("1000")
		svc := NewBankrollService(m.factory, "BRL")

		m.bankrollRepo.On("GetForUpdate", ctx, testUserID, bankroll.ID).Return(bankroll, nil)
		m.betRepo.On("CountByBankroll", ctx, bankroll.ID).Return(0, nil)
		m.bankrollRepo.On("Delete", ctx, bankroll.ID).Return(nil)

		require.NoError(t, svc.DeleteBankroll(ctx, testUserID, bankroll.ID))
		m.assertExpectations(t)
	})

	t.Run("refuses bankroll with bets", func(t *testing.T) {
		m := newLedgerMocks(ctx)
		bankroll := newTestBankroll("1000")
		svc := NewBankrollService(m.factory, "BRL")

		m.bankrollRepo.On("GetForUpdate", ctx, testUserID, bankroll.ID).Return(bankroll, nil)
		m.betRepo.On("CountByBankroll", ctx, bankroll.ID).Return(3, nil)

		err := svc.DeleteBankroll(ctx, testUserID, bankroll.ID)

		assert.ErrorIs(t, err, ErrHasDependentBets)
		assert.Contains(t, MessageOf(err), "3 bet(s)")
		m.bankrollRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("not owned", func(t *testing.T) {
		m := newLedgerMocks(ctx)
		svc := NewBankrollService(m.factory, "BRL")
		id := uuid.New()

		m.bankrollRepo.On("GetForUpdate", ctx, testUserID, id).Return(nil, nil)

		assert.ErrorIs(t, svc.DeleteBankroll(ctx, testUserID, id), ErrNotFound)
	})
}

func TestBankrollService_GetBankrollByID_IncludesRecentBets(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks(ctx)

	bankroll := newTestBankroll("1000")
	recent := []*models.Bet{newPendingBet(bankroll.ID, "10", "2")}
	svc := NewBankrollService(m.factory, "BRL")

	m.bankrollRepo.On("GetByID", ctx, testUserID, bankroll.ID).Return(bankroll, nil)
	m.betRepo.On("ListRecentByBankroll", ctx, bankroll.ID, 10).Return(recent, nil)

	got, err := svc.GetBankrollByID(ctx, testUserID, bankroll.ID)

	require.NoError(t, err)
	assert.Equal(t, recent, got.RecentBets)
	m.assertExpectations(t)
}

func TestBankrollService_GetActiveBankroll_None(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks(ctx)
	svc := NewBankrollService(m.factory, "BRL")

	m.bankrollRepo.On("GetOldestActive", ctx, testUserID).Return(nil, nil)

	_, err := svc.GetActiveBankroll(ctx, testUserID)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "active bankroll not found", MessageOf(err))
}

func TestBankrollService_GetBankrolls_EmptyList(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks(ctx)
	svc := NewBankrollService(m.factory, "BRL")

	m.bankrollRepo.On("ListByUser", ctx, testUserID).Return(nil, nil)

	bankrolls, err := svc.GetBankrolls(ctx, testUserID)

	require.NoError(t, err)
	assert.NotNil(t, bankrolls)
	assert.Empty(t, bankrolls)
}

func TestBankrollService_UpdateBankroll(t *testing.T) {
	ctx := context.Background()

	t.Run("renames and deactivates", func(t *testing.T) {
		m := newLedgerMocks(ctx)
		m.expectCommit()
		bankroll := newTestBankroll("1000")
		svc := NewBankrollService(m.factory, "BRL")
		name := " Weekend fund "
		active := false

		m.bankrollRepo.On("GetForUpdate", ctx, testUserID, bankroll.ID).Return(bankroll, nil)
		m.bankrollRepo.On("Update", ctx, mock.MatchedBy(func(b *models.Bankroll) bool {
			return b.Name == "Weekend fund" && !b.IsActive
		})).Return(nil)

		updated, err := svc.UpdateBankroll(ctx, testUserID, bankroll.ID, models.BankrollUpdate{Name: &name, IsActive: &active})

		require.NoError(t, err)
		assert.Equal(t, "Weekend fund", updated.Name)
		m.assertExpectations(t)
	})

	t.Run("empty update rejected", func(t *testing.T) {
		factory := new(MockUnitOfWorkFactory)
		svc := NewBankrollService(factory, "BRL")

		_, err := svc.UpdateBankroll(ctx, testUserID, uuid.New(), models.BankrollUpdate{})

		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestBankrollService_GetBalanceHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("default limit", func(t *testing.T) {
		m := newLedgerMocks(ctx)
		bankroll := newTestBankroll("1000")
		svc := NewBankrollService(m.factory, "BRL")
		history := []*models.BalanceHistory{{ID: 1, BankrollID: bankroll.ID}}

		m.bankrollRepo.On("GetByID", ctx, testUserID, bankroll.ID).Return(bankroll, nil)
		m.historyRepo.On("GetByBankroll", ctx, bankroll.ID, 50).Return(history, nil)

		got, err := svc.GetBalanceHistory(ctx, testUserID, bankroll.ID, 0)

		require.NoError(t, err)
		assert.Equal(t, history, got)
	})

	t.Run("limit out of range", func(t *testing.T) {
		factory := new(MockUnitOfWorkFactory)
		svc := NewBankrollService(factory, "BRL")

		_, err := svc.GetBalanceHistory(ctx, testUserID, uuid.New(), 500)

		assert.ErrorIs(t, err, ErrValidation)
	})
}
