package queue

import "testing"

func pagerPages(items []PagerItem) []int {
	out := make([]int, len(items))
	for i, item := range items {
		if item.Ellipsis {
			out[i] = -1
			continue
		}
		out[i] = item.Page
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildPagerWindow(t *testing.T) {
	cases := []struct {
		name  string
		meta  PageMeta
		want  []int // -1 marks an ellipsis
		first bool
		last  bool
	}{
		{
			name: "first page trailing gap",
			meta: PageMeta{Page: 1, TotalPages: 10},
			want: []int{1, 2, 3, 4, -1, 10},
		},
		{
			name: "interior page both gaps",
			meta: PageMeta{Page: 5, TotalPages: 10},
			want: []int{1, 2, 3, 4, 5, 6, 7, 8, -1, 10},
		},
		{
			name: "gap of one collapses without ellipsis",
			meta: PageMeta{Page: 5, TotalPages: 9},
			want: []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
		},
		{
			name: "window reaches both edges",
			meta: PageMeta{Page: 3, TotalPages: 6},
			want: []int{1, 2, 3, 4, 5, 6},
		},
		{
			name: "last page leading gap",
			meta: PageMeta{Page: 10, TotalPages: 10},
			want: []int{1, -1, 7, 8, 9, 10},
		},
		{
			name: "single page",
			meta: PageMeta{Page: 1, TotalPages: 1},
			want: []int{1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := BuildPager(tc.meta, false)
			if got := pagerPages(view.Items); !equalInts(got, tc.want) {
				t.Fatalf("expected pages %v, got %v", tc.want, got)
			}
			current := 0
			for _, item := range view.Items {
				if item.Current {
					current = item.Page
				}
				if item.Badge {
					t.Fatal("full mode must not render a badge")
				}
			}
			if current != tc.meta.Page {
				t.Fatalf("expected current page %d marked, got %d", tc.meta.Page, current)
			}
		})
	}
}

func TestBuildPagerControls(t *testing.T) {
	view := BuildPager(PageMeta{Page: 1, TotalPages: 5}, false)
	if !view.Prev.Disabled || view.Next.Disabled {
		t.Fatalf("first page: prev disabled, next enabled, got %#v", view)
	}
	view = BuildPager(PageMeta{Page: 5, TotalPages: 5}, false)
	if view.Prev.Disabled || !view.Next.Disabled {
		t.Fatalf("last page: prev enabled, next disabled, got %#v", view)
	}
	if view.Prev.Page != 4 {
		t.Fatalf("prev must target the previous page, got %d", view.Prev.Page)
	}
}

func TestBuildPagerCompactBadge(t *testing.T) {
	view := BuildPager(PageMeta{Page: 4, TotalPages: 9}, true)
	if !view.Compact {
		t.Fatal("expected compact mode")
	}
	if len(view.Items) != 1 || !view.Items[0].Badge || view.Items[0].Page != 4 {
		t.Fatalf("compact mode is a single current-page badge: %#v", view.Items)
	}
	if view.Prev.Disabled || view.Next.Disabled {
		t.Fatal("prev/next stay available in compact mode")
	}
}

func TestBuildPagerDegenerateMeta(t *testing.T) {
	view := BuildPager(PageMeta{Page: 0, TotalPages: 0}, false)
	if len(view.Items) != 1 || view.Items[0].Page != 1 {
		t.Fatalf("degenerate metadata must render a single page: %#v", view.Items)
	}
	if !view.Prev.Disabled || !view.Next.Disabled {
		t.Fatal("both controls disabled on a single page")
	}
}

func TestClampPage(t *testing.T) {
	if got := ClampPage(0, 5); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := ClampPage(9, 5); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := ClampPage(3, 0); got != 1 {
		t.Fatalf("expected 1 for zero total, got %d", got)
	}
}
