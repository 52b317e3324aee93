package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Account usernames: letters, digits and @/./+/-/_ only
	UsernamePattern = `^[\w.@+-]+$`

	// Integers as typed into a form, sign allowed
	IntegerPattern = `^[-+]?\d+$`

	// Decimal with at most 3 integer digits and 2 fraction digits (NUMERIC(5,2))
	PercentagePattern = `^[-+]?\d{1,3}(\.\d{1,2})?$`

	// Password min length
	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Username   *regexp.Regexp
	Integer    *regexp.Regexp
	Percentage *regexp.Regexp
}{
	Username:   regexp.MustCompile(UsernamePattern),
	Integer:    regexp.MustCompile(IntegerPattern),
	Percentage: regexp.MustCompile(PercentagePattern),
}
