package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, falling back to defaultOrder
func ValidateSortOrder(orderDir, defaultOrder string) string {
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	default:
		return defaultOrder
	}
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// UserSortFields contains allowed sort fields for the user listing
var UserSortFields = map[string]bool{
	"phone_number": true,
	"email":        true,
	"first_name":   true,
	"last_name":    true,
	"date_joined":  true,
	"last_login":   true,
	"is_active":    true,
	"created_at":   true,
}
