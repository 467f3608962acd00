package httpmetrics_test

import (
	"testing"

	"github.com/AlibekovAA/puppies-api/internal/common/httpmetrics"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/api/posts/feed", "/api/posts/feed"},
		{"/api/posts/0b5f7c2e-9a51-4d43-8f4e-3c6a2c1d9e10/likes", "/api/posts/{param}/likes"},
		{"/api/users/42", "/api/users/{param}"},
	}

	for _, tt := range tests {
		if got := httpmetrics.NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
