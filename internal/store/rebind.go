package store

import "regexp"

var placeholderPattern = regexp.MustCompile(`\$\d+`)

// Queries are written with postgres-style $N placeholders. rebind converts
// them to ? for sqlite. Placeholders are always used in ascending order
// without repetition, so positional substitution is safe.
func rebind(driver, query string) string {
	if driver != "sqlite" {
		return query
	}
	return placeholderPattern.ReplaceAllString(query, "?")
}
