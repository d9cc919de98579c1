package scope

import "strings"

// matchGlobPattern matches a slash-separated path against a glob pattern.
// "**" spans any number of segments, "*" matches within a segment.
func matchGlobPattern(p, pattern string) bool {
	return matchSegments(strings.Split(p, "/"), strings.Split(pattern, "/"))
}

func matchSegments(segs, pat []string) bool {
	if len(pat) == 0 {
		return len(segs) == 0
	}
	if pat[0] == "**" {
		if len(pat) == 1 {
			return true
		}
		for i := 0; i <= len(segs); i++ {
			if matchSegments(segs[i:], pat[1:]) {
				return true
			}
		}
		return false
	}
	if len(segs) == 0 {
		return false
	}
	if !matchSegment(segs[0], pat[0]) {
		return false
	}
	return matchSegments(segs[1:], pat[1:])
}

// matchSegment matches one path segment against one pattern segment,
// honoring * wildcards.
func matchSegment(seg, pat string) bool {
	if pat == "*" || pat == seg {
		return true
	}
	if !strings.Contains(pat, "*") {
		return false
	}

	parts := strings.Split(pat, "*")
	if !strings.HasPrefix(seg, parts[0]) {
		return false
	}
	seg = seg[len(parts[0]):]
	for i := 1; i < len(parts)-1; i++ {
		idx := strings.Index(seg, parts[i])
		if idx < 0 {
			return false
		}
		seg = seg[idx+len(parts[i]):]
	}
	return strings.HasSuffix(seg, parts[len(parts)-1])
}
