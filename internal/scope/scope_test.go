package scope

import (
	"errors"
	"testing"
)

func TestValidateInScope(t *testing.T) {
	v := New()
	scope := []string{"tests/"}

	tests := []struct {
		path string
		want bool
	}{
		{"tests/auth_test.go", true},
		{"tests/unit/deep/file.go", true},
		{"tests", true},
		{"lib/auth.go", false},
		{"testsuite/file.go", false}, // prefix match is per segment
		{"", false},
	}
	for _, tt := range tests {
		if got := v.Validate(tt.path, scope); got != tt.want {
			t.Errorf("Validate(%q, %v) = %v, want %v", tt.path, scope, got, tt.want)
		}
	}
}

func TestValidateRejectsTraversal(t *testing.T) {
	v := New()
	scope := []string{"tests/"}

	tests := []string{
		"../etc/passwd",
		"tests/../lib/auth.go",
		"tests/../../outside",
		"..",
	}
	for _, p := range tests {
		if v.Validate(p, scope) {
			t.Errorf("Validate(%q) = true, want false (traversal)", p)
		}
	}

	// A traversal that stays inside the scope after normalization is fine.
	if !v.Validate("tests/sub/../auth_test.go", scope) {
		t.Error("normalized in-scope path should validate")
	}
}

func TestValidateDenyListOverridesScope(t *testing.T) {
	v := New()
	// Scope covers everything, but denied paths must still fail.
	scope := []string{"."}

	denied := []string{
		"secrets/api.json",
		"config/.env",
		"deploy/tls/server.key",
		".git/config",
		"vendor/.git/HEAD",
	}
	for _, p := range denied {
		if v.Validate(p, scope) {
			t.Errorf("Validate(%q) = true, want false (deny list)", p)
		}
	}

	if !v.Validate("lib/auth.go", scope) {
		t.Error("non-denied path under '.' scope should validate")
	}
}

func TestValidateCustomDeny(t *testing.T) {
	v := NewWithDenyList(nil)
	if !v.Validate("secrets/api.json", []string{"secrets/"}) {
		t.Error("empty deny list should allow in-scope path")
	}

	v.Deny("**/generated/**")
	if v.Validate("pkg/generated/models.go", []string{"pkg/"}) {
		t.Error("added deny pattern should block path")
	}
}

func TestValidateMultiplePrefixes(t *testing.T) {
	v := New()
	scope := []string{"tests/", "docs/"}

	if !v.Validate("docs/readme.md", scope) {
		t.Error("path under second prefix should validate")
	}
	if v.Validate("lib/auth.go", scope) {
		t.Error("path outside all prefixes should not validate")
	}
}

func TestValidateIdempotent(t *testing.T) {
	v := New()
	scope := []string{"tests/"}
	p := "tests/auth_test.go"

	first := v.Validate(p, scope)
	for i := 0; i < 5; i++ {
		if v.Validate(p, scope) != first {
			t.Fatal("Validate is not idempotent")
		}
	}
}

func TestCheckReturnsViolation(t *testing.T) {
	v := New()

	err := v.Check("lib/auth.go", []string{"tests/"})
	if err == nil {
		t.Fatal("expected violation error")
	}
	var ve *ViolationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ViolationError, got %T", err)
	}
	if ve.Path != "lib/auth.go" {
		t.Errorf("violation path = %q, want %q", ve.Path, "lib/auth.go")
	}

	if err := v.Check("tests/a_test.go", []string{"tests/"}); err != nil {
		t.Errorf("in-scope path returned error: %v", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in  string
		out string
		ok  bool
	}{
		{"tests/auth_test.go", "tests/auth_test.go", true},
		{"./tests/a.go", "tests/a.go", true},
		{"tests//a.go", "tests/a.go", true},
		{"tests/sub/../a.go", "tests/a.go", true},
		{"tests\\win\\a.go", "tests/win/a.go", true},
		{"../outside", "", false},
		{"..", "", false},
		{"", "", false},
		{".", "", false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.in)
		if got != tt.out || ok != tt.ok {
			t.Errorf("Normalize(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.out, tt.ok)
		}
	}
}
