// Package scope validates resource paths against a task's allowed-prefix set.
// Validation is a pure function: it must be called before every
// resource-mutating operation a worker performs, and a false result means the
// operation is refused, never silently skipped.
package scope

import (
	"path"
	"strings"
	"sync"
)

// Validator checks paths against scope prefixes and a global deny list.
// Denied paths fail validation regardless of scope; the deny list exists for
// resources that must never be touched by any worker.
type Validator struct {
	denyPatterns []string
	mu           sync.RWMutex
}

// New creates a Validator with the default deny patterns.
func New() *Validator {
	return &Validator{
		denyPatterns: append([]string{}, DefaultDenyPatterns...),
	}
}

// NewWithDenyList creates a Validator with the given deny patterns only.
func NewWithDenyList(patterns []string) *Validator {
	return &Validator{
		denyPatterns: append([]string{}, patterns...),
	}
}

// Deny adds a glob pattern to the global deny list.
func (v *Validator) Deny(pattern string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.denyPatterns = append(v.denyPatterns, pattern)
}

// Validate returns true iff p, after normalization, has a prefix in scope and
// matches no global deny pattern. Paths containing traversal segments fail
// outright.
func (v *Validator) Validate(p string, scope []string) bool {
	return v.Check(p, scope) == nil
}

// Check is Validate with a reason: it returns nil when the path is allowed
// and a *ViolationError describing why otherwise.
func (v *Validator) Check(p string, scope []string) error {
	norm, ok := Normalize(p)
	if !ok {
		return &ViolationError{Path: p, Scope: scope, Reason: "path escapes the resource root"}
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, pattern := range v.denyPatterns {
		if matchGlobPattern(norm, pattern) {
			return &ViolationError{Path: norm, Scope: scope, Reason: "path is globally denied by pattern " + pattern}
		}
	}

	for _, prefix := range scope {
		if hasPrefix(norm, prefix) {
			return nil
		}
	}
	return &ViolationError{Path: norm, Scope: scope, Reason: "path is outside the task scope"}
}

// Normalize cleans a resource path for comparison: slash separators,
// path.Clean, leading "./" stripped. The second return is false when the
// path still escapes upward (contains a ".." segment) or is empty.
func Normalize(p string) (string, bool) {
	p = strings.ReplaceAll(p, "\\", "/")
	cleaned := path.Clean(p)
	if cleaned == "" || cleaned == "." {
		return "", false
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	cleaned = strings.TrimPrefix(cleaned, "./")
	return cleaned, true
}

// hasPrefix reports whether norm falls under the scope prefix, matching on
// whole path segments: "lib" covers "lib/auth.go" but not "library.go".
// The prefix "." covers everything.
func hasPrefix(norm, prefix string) bool {
	prefix = strings.ReplaceAll(prefix, "\\", "/")
	prefix = strings.TrimSuffix(path.Clean(prefix), "/")
	if prefix == "." {
		return true
	}
	if prefix == "" || prefix == ".." || strings.HasPrefix(prefix, "../") {
		return false
	}
	return norm == prefix || strings.HasPrefix(norm, prefix+"/")
}
