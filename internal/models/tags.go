package models

// TagOptions is the fixed set of labels a post may carry. Tag order is
// not significant; NormalizeTags dedupes and preserves first occurrence.
var TagOptions = []string{
	"song-request",
	"question",
	"notice",
}

var tagSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(TagOptions))
	for _, t := range TagOptions {
		m[t] = struct{}{}
	}
	return m
}()

// ValidTag reports whether tag belongs to the fixed enumeration.
func ValidTag(tag string) bool {
	_, ok := tagSet[tag]
	return ok
}

// NormalizeTags drops empty entries and duplicates. It returns the first
// tag outside the enumeration, if any, so callers can reject it.
func NormalizeTags(tags []string) ([]string, string) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		if !ValidTag(t) {
			return nil, t
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, ""
}
