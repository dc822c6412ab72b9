package pagination

// Page is one page of results with neighbouring page numbers.
type Page[T any] struct {
	Count    int  `json:"count"`
	Next     *int `json:"next"`
	Previous *int `json:"previous"`
	Page     int  `json:"page"`
	Results  []T  `json:"results"`
}

// Window returns the [start, end) slice bounds of page within total items.
// Pages past the end yield an empty window.
func Window(total, page, size int) (int, int) {
	if size <= 0 {
		size = 1
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= total {
		return total, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}

// Build assembles a Page from an already sliced result set.
func Build[T any](results []T, total, page, size int) Page[T] {
	if size <= 0 {
		size = 1
	}
	if page < 1 {
		page = 1
	}
	if results == nil {
		results = []T{}
	}
	p := Page[T]{Count: total, Page: page, Results: results}
	last := (total + size - 1) / size
	if page < last {
		n := page + 1
		p.Next = &n
	}
	if page > 1 && last > 0 {
		prev := page - 1
		if prev > last {
			prev = last
		}
		p.Previous = &prev
	}
	return p
}

// Slice paginates an in-memory result set.
func Slice[T any](items []T, page, size int) Page[T] {
	start, end := Window(len(items), page, size)
	return Build(items[start:end], len(items), page, size)
}

// Map converts the results of p with fn, keeping the counters.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Results))
	for i, r := range p.Results {
		out[i] = fn(r)
	}
	return Page[U]{Count: p.Count, Next: p.Next, Previous: p.Previous, Page: p.Page, Results: out}
}
