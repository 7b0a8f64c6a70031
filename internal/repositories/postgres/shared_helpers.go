package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/registration-service/internal/repositories"
)

// handleDBError is a package-level helper for handling database errors.
// Not-found and duplicate-key errors pass through unwrapped so callers can
// classify them with repositories.IsNotFoundError / IsDuplicateKeyError.
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}
	if repositories.IsNotFoundError(err) || repositories.IsDuplicateKeyError(err) {
		return err
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}

// applyStudentSortAndPagination applies sorting and pagination with SQL
// injection protection.
func applyStudentSortAndPagination(query *gorm.DB, filters repositories.StudentFilters) *gorm.DB {
	// Whitelist allowed sort columns: map API keys to SQL identifiers
	sortKeyToColumn := map[string]string{
		"id":             "id",
		"name":           "name",
		"email":          "email",
		"enrollmentDate": "enrollment_date",
	}

	// Validate and set sort column (map API to SQL name, default if invalid)
	column, ok := sortKeyToColumn[filters.SortBy]
	if !ok {
		column = "id"
	}

	// Validate and set sort order
	order := "DESC"
	if filters.SortOrder == "asc" || filters.SortOrder == "ASC" {
		order = "ASC"
	}

	// Use only mapped SQL column name and constant sort order
	query = query.Order(fmt.Sprintf("%s %s", column, order))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	return query
}
