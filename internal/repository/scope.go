package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/fixlane/marketplace-api/internal/auth"
	"github.com/fixlane/marketplace-api/internal/domain"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string
	Order SortOrder
}

// DefaultSortConfig returns a default sort configuration (created_at DESC)
func DefaultSortConfig() SortConfig {
	return SortConfig{
		Field: "createdAt",
		Order: SortOrderDesc,
	}
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// BuildOrderClause builds the ORDER BY clause from a whitelist of API field
// names to column names. Unknown fields fall back to defaultColumn.
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}

// ApplyActorScope restricts job queries to what the calling actor may see:
// customers see their own jobs, vendors see jobs assigned to them, admins
// and the service account see everything. Queries without a user context
// (background jobs) are returned unchanged.
func ApplyActorScope(ctx context.Context, query *gorm.DB) *gorm.DB {
	user, ok := auth.FromContext(ctx)
	if !ok || user.IsAdmin() {
		return query
	}
	if user.HasRole(domain.RoleCustomer) {
		return query.Where("customer_id = ?", user.UserID)
	}
	if user.HasRole(domain.RoleVendor) {
		return query.Where("vendor_id = ?", user.UserID)
	}
	return query
}

// NormalizePage clamps page and pageSize to sane values
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
