package domain

// CategoryType defines the fundamental accounting type of a chart-of-accounts category.
type CategoryType string

const (
	Asset     CategoryType = "ASSET"
	Liability CategoryType = "LIABILITY"
	Equity    CategoryType = "EQUITY"
	Revenue   CategoryType = "REVENUE"
	Expense   CategoryType = "EXPENSE"
)

// CoaCategory is a node in the chart-of-accounts tree. Level is computed from
// the parent at write time (0 for roots) and is not re-derived when an
// ancestor moves.
type CoaCategory struct {
	CategoryID   string       `json:"categoryID"` // Primary Key (e.g., UUID)
	ParentID     *string      `json:"parentID"`   // Nullable self-reference
	Name         string       `json:"name"`
	Code         string       `json:"code"` // Unique
	CategoryType CategoryType `json:"categoryType"`
	Level        int          `json:"level"` // parent.Level + 1, 0 for roots
	AuditFields
}
