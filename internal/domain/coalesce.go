package domain

// CoalesceStr returns the first non-empty string from vals. Callers use it
// to fall back from an explicit value (a slug, an author) to a derived one.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
