package accounting_test

import (
	"testing"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEntryNumber_ZeroPads(t *testing.T) {
	assert.Equal(t, "J000001", accounting.FormatEntryNumber(1))
	assert.Equal(t, "J000042", accounting.FormatEntryNumber(42))
	assert.Equal(t, "J1000000", accounting.FormatEntryNumber(1000000))
}

func TestParseEntryNumber_RoundTrip(t *testing.T) {
	for _, seq := range []int64{1, 42, 999999, 1000000} {
		got, ok := accounting.ParseEntryNumber(accounting.FormatEntryNumber(seq))
		require.True(t, ok)
		assert.Equal(t, seq, got)
	}
}

func TestParseEntryNumber_RejectsForeignFormats(t *testing.T) {
	for _, value := range []string{"", "42", "J", "J-42", "INV000042", "J42x"} {
		_, ok := accounting.ParseEntryNumber(value)
		assert.False(t, ok, "expected %q to be rejected", value)
	}
}

func TestLineBaseAmount_UsesNonZeroSide(t *testing.T) {
	rate := decimal.NewFromFloat(1.5)

	debitBase := accounting.LineBaseAmount(decimal.NewFromInt(100), decimal.Zero, rate)
	assert.True(t, debitBase.Equal(decimal.NewFromInt(150)))

	creditBase := accounting.LineBaseAmount(decimal.Zero, decimal.NewFromInt(40), rate)
	assert.True(t, creditBase.Equal(decimal.NewFromInt(60)))
}

func TestLineBalanceEffect_SignedBySide(t *testing.T) {
	debitLine := domain.JournalEntryLine{DebitAmount: decimal.NewFromInt(70), CreditAmount: decimal.Zero}
	assert.True(t, accounting.LineBalanceEffect(debitLine).Equal(decimal.NewFromInt(70)))

	creditLine := domain.JournalEntryLine{DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(30)}
	assert.True(t, accounting.LineBalanceEffect(creditLine).Equal(decimal.NewFromInt(-30)))
}

func TestRecomputeBalance(t *testing.T) {
	got := accounting.RecomputeBalance(decimal.NewFromInt(100), decimal.NewFromInt(250), decimal.NewFromInt(80))
	assert.True(t, got.Equal(decimal.NewFromInt(270)))

	negative := accounting.RecomputeBalance(decimal.Zero, decimal.Zero, decimal.NewFromInt(10))
	assert.True(t, negative.Equal(decimal.NewFromInt(-10)))
}

func TestSettleTransaction_DepositAddsTotal(t *testing.T) {
	got, err := accounting.SettleTransaction(domain.Deposit, decimal.NewFromInt(50), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(150)))
}

func TestSettleTransaction_WithdrawExactBalance(t *testing.T) {
	got, err := accounting.SettleTransaction(domain.Withdraw, decimal.NewFromInt(100), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestSettleTransaction_WithdrawOverdraws(t *testing.T) {
	// The repository settles against the balance recomputed under the
	// account lock, so a stale caller-side balance cannot slip an
	// overdraft through.
	_, err := accounting.SettleTransaction(domain.Withdraw, decimal.NewFromInt(100), decimal.NewFromInt(99))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
}

func TestSettleTransaction_UnknownType(t *testing.T) {
	_, err := accounting.SettleTransaction(domain.TransactionType("TRANSFER"), decimal.NewFromInt(1), decimal.NewFromInt(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestIsWithinTolerance_Boundary(t *testing.T) {
	assert.True(t, accounting.IsWithinTolerance(decimal.NewFromFloat(0.009)))
	assert.True(t, accounting.IsWithinTolerance(decimal.NewFromFloat(-0.009)))
	assert.False(t, accounting.IsWithinTolerance(decimal.NewFromFloat(0.01)))
	assert.False(t, accounting.IsWithinTolerance(decimal.NewFromFloat(0.011)))
}
