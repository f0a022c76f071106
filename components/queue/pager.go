package queue

// pagerWindow is the fixed number of page controls rendered on each side of
// the current page in full mode.
const pagerWindow = 3

// PagerControl is a Prev/Next affordance.
type PagerControl struct {
	Page     int
	Disabled bool
}

// PagerItem is one entry between Prev and Next: a numbered page control, an
// ellipsis, or (compact mode) a plain current-page badge.
type PagerItem struct {
	Page     int
	Current  bool
	Ellipsis bool
	Badge    bool
}

// PagerView is a pure function of (meta, compact); it can be recomputed from
// the last-known metadata alone, without a refetch.
type PagerView struct {
	Prev    PagerControl
	Next    PagerControl
	Items   []PagerItem
	Compact bool
}

// BuildPager computes the windowed page-number control from server-supplied
// pagination metadata.
func BuildPager(meta PageMeta, compact bool) PagerView {
	total := meta.TotalPages
	if total < 1 {
		total = 1
	}
	page := ClampPage(meta.Page, total)

	view := PagerView{
		Prev:    PagerControl{Page: ClampPage(page-1, total), Disabled: page <= 1},
		Next:    PagerControl{Page: ClampPage(page+1, total), Disabled: page >= total},
		Compact: compact,
	}
	if compact {
		view.Items = []PagerItem{{Page: page, Current: true, Badge: true}}
		return view
	}

	start := page - pagerWindow
	if start < 1 {
		start = 1
	}
	end := page + pagerWindow
	if end > total {
		end = total
	}

	if start > 1 {
		view.Items = append(view.Items, PagerItem{Page: 1})
		if start > 2 {
			view.Items = append(view.Items, PagerItem{Ellipsis: true})
		}
	}
	for p := start; p <= end; p++ {
		view.Items = append(view.Items, PagerItem{Page: p, Current: p == page})
	}
	if end < total {
		if total-end > 1 {
			view.Items = append(view.Items, PagerItem{Ellipsis: true})
		}
		view.Items = append(view.Items, PagerItem{Page: total})
	}
	return view
}

// ClampPage bounds a requested page number to [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
