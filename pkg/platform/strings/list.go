// Package strings holds small string helpers shared by config parsing.
package strings

import "strings"

// SplitList splits a separated list, trimming each item and dropping empty
// and repeated items. Order of first occurrence is kept.
func SplitList(raw, sep string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, item := range strings.Split(raw, sep) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
