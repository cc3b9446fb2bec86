package accounting

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// entryNumberPattern matches generated journal entry numbers ("J" + digits).
var entryNumberPattern = regexp.MustCompile(`^J(\d+)$`)

// ReconcileTolerance is the absolute difference below which the two balance
// representations are considered in agreement.
var ReconcileTolerance = decimal.NewFromFloat(0.01)

// FormatEntryNumber renders a journal entry sequence value as "J" followed by
// the zero-padded sequence, e.g. 42 -> "J000042".
func FormatEntryNumber(seq int64) string {
	return fmt.Sprintf("J%06d", seq)
}

// ParseEntryNumber extracts the numeric suffix of an entry number.
// Returns 0 and false for values that do not match the generated format.
func ParseEntryNumber(entryNumber string) (int64, bool) {
	m := entryNumberPattern.FindStringSubmatch(entryNumber)
	if m == nil {
		return 0, false
	}
	seq, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return seq, true
}

// LineBaseAmount computes the reporting-currency value of a journal line:
// the non-zero side of the line multiplied by its exchange rate.
func LineBaseAmount(debit, credit, rate decimal.Decimal) decimal.Decimal {
	if debit.GreaterThan(decimal.Zero) {
		return debit.Mul(rate)
	}
	return credit.Mul(rate)
}

// LineBalanceEffect is the signed change a journal line applies to its
// (account, currency) balance: +debit or -credit.
func LineBalanceEffect(line domain.JournalEntryLine) decimal.Decimal {
	return line.DebitAmount.Sub(line.CreditAmount)
}

// RecomputeBalance derives an account's aggregate reporting-currency balance
// from scratch: initial balance plus deposit totals minus withdrawal totals.
// The sum is commutative, so the result is independent of log order.
func RecomputeBalance(initial, depositTotals, withdrawTotals decimal.Decimal) decimal.Decimal {
	return initial.Add(depositTotals).Sub(withdrawTotals)
}

// SettleTransaction applies a transaction's reporting-currency total to the
// aggregate balance and returns the new balance. Withdrawals exceeding the
// balance fail with apperrors.ErrInsufficientBalance. This is the single
// overdraft rule; the repository re-runs it against the balance recomputed
// under the account lock before committing.
func SettleTransaction(txnType domain.TransactionType, total, current decimal.Decimal) (decimal.Decimal, error) {
	switch txnType {
	case domain.Deposit:
		return current.Add(total), nil
	case domain.Withdraw:
		if total.GreaterThan(current) {
			return decimal.Zero, fmt.Errorf("%w: withdrawal of %s exceeds balance %s", apperrors.ErrInsufficientBalance, total, current)
		}
		return current.Sub(total), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown transaction type %s", apperrors.ErrValidation, txnType)
	}
}

// IsWithinTolerance reports whether diff is small enough to treat the two
// balance representations as agreeing.
func IsWithinTolerance(diff decimal.Decimal) bool {
	return diff.Abs().LessThan(ReconcileTolerance)
}
