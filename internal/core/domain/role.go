package domain

import (
	"fmt"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
)

// AccountRole names a well-known posting role that workflows resolve to a
// concrete account (cash drawer, receivables, revenue, ...). The mapping is
// explicit configuration injected at setup time; there is no name-pattern
// guessing.
type AccountRole string

const (
	RoleCash       AccountRole = "CASH"
	RoleBank       AccountRole = "BANK"
	RoleReceivable AccountRole = "RECEIVABLE"
	RolePayable    AccountRole = "PAYABLE"
	RoleRevenue    AccountRole = "REVENUE"
	RoleExpense    AccountRole = "EXPENSE"
)

// AccountRoleMap maps posting roles to account ids.
type AccountRoleMap map[AccountRole]string

// Resolve returns the account id mapped to role, or ErrRoleUnmapped when the
// role has no configured account.
func (m AccountRoleMap) Resolve(role AccountRole) (string, error) {
	accountID, ok := m[role]
	if !ok || accountID == "" {
		return "", fmt.Errorf("%w: %s", apperrors.ErrRoleUnmapped, role)
	}
	return accountID, nil
}
