package domain

import "testing"

func TestPageRequestNormalize(t *testing.T) {
	req := PageRequest{}.Normalize()
	if req.Page != DefaultPage || req.PageSize != DefaultPageSize {
		t.Fatalf("expected defaults, got page=%d pageSize=%d", req.Page, req.PageSize)
	}

	req = PageRequest{Page: -3, PageSize: 0}.Normalize()
	if req.Page != DefaultPage || req.PageSize != DefaultPageSize {
		t.Fatalf("negative values should normalize, got page=%d pageSize=%d", req.Page, req.PageSize)
	}

	req = PageRequest{Page: 4, PageSize: 25}.Normalize()
	if req.Page != 4 || req.PageSize != 25 {
		t.Fatalf("valid values should pass through, got page=%d pageSize=%d", req.Page, req.PageSize)
	}
}

func TestPageRequestOffset(t *testing.T) {
	req := PageRequest{Page: 3, PageSize: 10}
	if got := req.Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}

	req = PageRequest{Page: 1, PageSize: 50}
	if got := req.Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
}

func TestNewPageTotalPages(t *testing.T) {
	cases := []struct {
		total    int64
		pageSize int
		want     int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{3, 1, 3},
	}

	for _, tc := range cases {
		page := NewPage(nil, tc.total, PageRequest{Page: 1, PageSize: tc.pageSize})
		if page.TotalPages != tc.want {
			t.Fatalf("total=%d pageSize=%d: expected %d pages, got %d", tc.total, tc.pageSize, tc.want, page.TotalPages)
		}
		if page.TotalItems != tc.total {
			t.Fatalf("expected totalItems %d, got %d", tc.total, page.TotalItems)
		}
	}
}

func TestNewPageKeepsRequestValues(t *testing.T) {
	page := NewPage([]int{1, 2}, 12, PageRequest{Page: 5, PageSize: 2})
	if page.Page != 5 || page.PageSize != 2 {
		t.Fatalf("expected page=5 pageSize=2, got page=%d pageSize=%d", page.Page, page.PageSize)
	}
	if page.TotalPages != 6 {
		t.Fatalf("expected 6 pages, got %d", page.TotalPages)
	}
}
