package scope

import (
	"reflect"
	"testing"
)

func TestIntersect(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		accepted  []string
		want      []string
	}{
		{
			name:      "exact match",
			requested: []string{"tests/"},
			accepted:  []string{"tests/"},
			want:      []string{"tests"},
		},
		{
			name:      "requested narrower",
			requested: []string{"tests/unit/"},
			accepted:  []string{"tests/"},
			want:      []string{"tests/unit"},
		},
		{
			name:      "accepted narrower",
			requested: []string{"tests/"},
			accepted:  []string{"tests/unit/"},
			want:      []string{"tests/unit"},
		},
		{
			name:      "disjoint",
			requested: []string{"lib/"},
			accepted:  []string{"tests/"},
			want:      nil,
		},
		{
			name:      "dot accepts everything",
			requested: []string{"lib/auth.go"},
			accepted:  []string{"."},
			want:      []string{"lib/auth.go"},
		},
		{
			name:      "mixed",
			requested: []string{"tests/", "lib/"},
			accepted:  []string{"tests/", "docs/"},
			want:      []string{"tests"},
		},
		{
			name:      "duplicates dropped",
			requested: []string{"tests/", "tests/unit/"},
			accepted:  []string{"tests/"},
			want:      []string{"tests", "tests/unit"},
		},
		{
			name:      "traversal prefix ignored",
			requested: []string{"../outside", "tests/"},
			accepted:  []string{"tests/"},
			want:      []string{"tests"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Intersect(tt.requested, tt.accepted)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Intersect(%v, %v) = %v, want %v", tt.requested, tt.accepted, got, tt.want)
			}
		})
	}
}
