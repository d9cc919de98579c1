package scope

import (
	"path"
	"strings"
)

// Intersect computes the effective scope of a dispatch: the pairwise
// intersection of the requested prefixes with a worker's accepted prefixes.
// When one prefix contains the other, the deeper prefix survives; disjoint
// pairs contribute nothing. Order follows the requested scope; duplicates
// are dropped.
func Intersect(requested, accepted []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, req := range requested {
		r, ok := normalizePrefix(req)
		if !ok {
			continue
		}
		for _, acc := range accepted {
			a, ok := normalizePrefix(acc)
			if !ok {
				continue
			}
			deeper, ok := narrower(r, a)
			if !ok || seen[deeper] {
				continue
			}
			seen[deeper] = true
			out = append(out, deeper)
		}
	}
	return out
}

// narrower returns the deeper of two prefixes when one contains the other.
func narrower(a, b string) (string, bool) {
	if a == b {
		return a, true
	}
	if a == "." {
		return b, true
	}
	if b == "." {
		return a, true
	}
	if strings.HasPrefix(b, a+"/") {
		return b, true
	}
	if strings.HasPrefix(a, b+"/") {
		return a, true
	}
	return "", false
}

// normalizePrefix cleans a scope prefix for comparison. "." is the whole
// resource tree; traversal prefixes are invalid.
func normalizePrefix(p string) (string, bool) {
	p = strings.ReplaceAll(p, "\\", "/")
	cleaned := path.Clean(p)
	if cleaned == "" || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return strings.TrimSuffix(cleaned, "/"), true
}
