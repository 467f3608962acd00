package domain

import (
	"math"
	"testing"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		size  int
		want  int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{3, 2, 2},
		{5, 0, 0},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestNewPageNeverNilContent(t *testing.T) {
	page := NewPage[PostView](nil, PageSpec{Page: 4, Size: 2}, 3)

	if page.Content == nil {
		t.Fatal("expected non-nil content")
	}
	if len(page.Content) != 0 {
		t.Errorf("expected empty content, got %d items", len(page.Content))
	}
	if page.TotalElements != 3 || page.TotalPages != 2 {
		t.Errorf("unexpected metadata: %+v", page)
	}
}

func TestPageSpecPastEnd(t *testing.T) {
	cases := []struct {
		spec  PageSpec
		total int64
		want  bool
	}{
		{PageSpec{Page: 0, Size: 2}, 3, false},
		{PageSpec{Page: 1, Size: 2}, 3, false},
		{PageSpec{Page: 2, Size: 2}, 3, true},
		{PageSpec{Page: 0, Size: 20}, 0, true},
		{PageSpec{Page: math.MaxInt/2 + 1, Size: 2}, 3, true},
		{PageSpec{Page: math.MaxInt, Size: 100}, 3, true},
	}

	for _, tc := range cases {
		if got := tc.spec.PastEnd(tc.total); got != tc.want {
			t.Errorf("%+v.PastEnd(%d) = %v, want %v", tc.spec, tc.total, got, tc.want)
		}
	}
}
