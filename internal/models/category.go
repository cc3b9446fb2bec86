package models

// CategoryType mirrors domain.CategoryType for persistence.
type CategoryType string

// CoaCategory maps to the coa_categories table.
type CoaCategory struct {
	CategoryID   string       `db:"category_id"`
	ParentID     *string      `db:"parent_id"` // Nullable
	Name         string       `db:"name"`
	Code         string       `db:"code"` // Unique
	CategoryType CategoryType `db:"category_type"`
	Level        int          `db:"level"`
	AuditFields
}
