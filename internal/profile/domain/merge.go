package domain

// MergeFields shallow-merges field sets. Earlier arguments take precedence:
// a key already set by a previous set is never overwritten by a later one.
// Callers pass identity fields first so they win over stored profile fields.
func MergeFields(sets ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, set := range sets {
		for k, v := range set {
			if _, taken := out[k]; taken {
				continue
			}
			out[k] = v
		}
	}
	return out
}
