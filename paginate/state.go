package paginate

import "sync"

// TotalUnknown marks the server total as unknown in [State.AppendPage];
// has-more then falls back to the last-page-size heuristic.
const TotalUnknown = -1

// State accumulates pages of items, append-only across pages. It does
// not deduplicate items by identity: callers pairing it with a
// [Controller] already get at most one fetch per page.
type State[T any] struct {
	mu           sync.Mutex
	pageSize     int
	items        []T
	page         int
	total        int
	lastPageSize int
}

// NewState creates an empty state for pages of pageSize items.
// Panics if pageSize is not positive.
func NewState[T any](pageSize int) *State[T] {
	if pageSize <= 0 {
		panic("paginate: NewState requires pageSize > 0")
	}
	return &State[T]{
		pageSize: pageSize,
		total:    TotalUnknown,
	}
}

// AppendPage appends one fetched page and advances the page counter.
// Pass the server-reported total when known, or [TotalUnknown].
func (s *State[T]) AppendPage(items []T, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, items...)
	s.page++
	s.lastPageSize = len(items)
	if total >= 0 {
		s.total = total
	} else {
		s.total = TotalUnknown
	}
}

// HasMore reports whether another page is worth fetching. With a known
// total it compares against the item count; otherwise a full last page
// suggests more. Before the first page it is always true.
func (s *State[T]) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hasMoreLocked()
}

func (s *State[T]) hasMoreLocked() bool {
	if s.page == 0 {
		return true
	}
	if s.total >= 0 {
		return len(s.items) < s.total
	}
	return s.lastPageSize >= s.pageSize
}

// CanLoadMore combines HasMore with the controller's loading flag.
func (s *State[T]) CanLoadMore(loading bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hasMoreLocked() && !loading
}

// Items returns a copy of all accumulated items, in append order.
func (s *State[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of accumulated items.
func (s *State[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// CurrentPage returns the number of pages appended so far.
func (s *State[T]) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.page
}

// Total returns the server-reported total, or [TotalUnknown].
func (s *State[T]) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.total
}

// Reset returns the state to empty. Idempotent.
func (s *State[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.page = 0
	s.total = TotalUnknown
	s.lastPageSize = 0
}
