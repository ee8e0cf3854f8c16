package skills

import "strings"

// Normalize trims entries, drops blanks and removes case-insensitive
// duplicates. The first spelling of a skill wins and order is preserved.
func Normalize(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		skill := strings.Join(strings.Fields(raw), " ")
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out
}

// Line joins skills for single-line display.
func Line(in []string) string {
	return strings.Join(Normalize(in), ", ")
}
