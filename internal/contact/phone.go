package contact

import "strings"

const countryCode = "351"

// IsValidPhone reports whether value is a Portuguese mobile number: nine digits
// starting with 9, optionally prefixed by +351 or 351. Spaces, hyphens and
// parentheses are ignored.
func IsValidPhone(value string) bool {
	local := localPart(value)
	if len(local) != 9 || local[0] != '9' {
		return false
	}
	for _, r := range local {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizePhone formats value as "+351 XXX XXX XXX". It never fails: input
// that is not a valid number still yields a best-effort string, with the
// remainder after the first six characters kept in the last group.
func NormalizePhone(value string) string {
	local := []rune(localPart(value))
	groups := make([]string, 0, 3)
	for _, g := range []string{slice(local, 0, 3), slice(local, 3, 6), slice(local, 6, len(local))} {
		if g != "" {
			groups = append(groups, g)
		}
	}
	if len(groups) == 0 {
		return "+" + countryCode
	}
	return "+" + countryCode + " " + strings.Join(groups, " ")
}

// localPart strips separators and the country code prefix.
func localPart(value string) string {
	stripped := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, value)
	if rest, ok := strings.CutPrefix(stripped, "+"+countryCode); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(stripped, countryCode); ok {
		return rest
	}
	return stripped
}

func slice(s []rune, from, to int) string {
	if from >= len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return string(s[from:to])
}
