package service

import "strings"

// matchesSearch reports whether any of the fields contains the search term,
// case-insensitively. Empty fields never match.
func matchesSearch(fields []string, search string) bool {
	needle := strings.ToLower(search)
	for _, field := range fields {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
