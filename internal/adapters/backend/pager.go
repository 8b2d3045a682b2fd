package backend

import (
	"context"
	"sync"

	"github.com/okian/jumpboard/internal/domain/model"
)

// Page sizes used by the selectors.
const (
	AthletePageSize = 8
	EventPageSize   = 100
)

// FetchFunc loads one page of a listing for a search term.
type FetchFunc[T any] func(ctx context.Context, page int, search string) (model.Page[T], error)

// Pager walks a paged listing for an incremental selector. Items whose id is
// excluded, or that an earlier page already returned, are skipped.
type Pager[T any] struct {
	mu      sync.Mutex
	fetch   FetchFunc[T]
	id      func(T) int
	exclude map[int]struct{}
	seen    map[int]struct{}
	search  string
	page    int
	hasMore bool
}

// NewPager creates a pager over fetch. id returns an item's identity.
func NewPager[T any](fetch FetchFunc[T], id func(T) int) *Pager[T] {
	return &Pager[T]{
		fetch:   fetch,
		id:      id,
		exclude: make(map[int]struct{}),
		seen:    make(map[int]struct{}),
		hasMore: true,
	}
}

// Exclude hides ids from every later page, e.g. athletes already selected.
func (p *Pager[T]) Exclude(ids ...int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range ids {
		p.exclude[id] = struct{}{}
	}
}

// Include reverses Exclude for ids.
func (p *Pager[T]) Include(ids ...int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range ids {
		delete(p.exclude, id)
	}
}

// Reset restarts the listing at the first page with a new search term.
func (p *Pager[T]) Reset(search string) {
	p.ResetAt(search, 0)
}

// ResetAt restarts the listing at page with a new search term. Stateless
// callers use it to resume where a previous request stopped.
func (p *Pager[T]) ResetAt(search string, page int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.search = search
	p.page = max(page, 0)
	p.hasMore = true
	p.seen = make(map[int]struct{})
}

// Position is the page the next call to Next loads.
func (p *Pager[T]) Position() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// HasMore reports whether Next can load another page.
func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Next loads the next page. It returns no items and no error once the
// listing is exhausted. A failed fetch leaves the position unchanged.
func (p *Pager[T]) Next(ctx context.Context) ([]T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.hasMore {
		return nil, nil
	}
	page, err := p.fetch(ctx, p.page, p.search)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(page.Content))
	for _, item := range page.Content {
		id := p.id(item)
		if _, skip := p.exclude[id]; skip {
			continue
		}
		if _, dup := p.seen[id]; dup {
			continue
		}
		p.seen[id] = struct{}{}
		items = append(items, item)
	}
	p.page++
	p.hasMore = p.page < page.TotalPages
	return items, nil
}

// AthletePager pages through users for the athlete selector, optionally
// restricted to roles and teams.
func (c *Client) AthletePager(size int, roleIDs, teamIDs []int) *Pager[model.Athlete] {
	if size <= 0 {
		size = AthletePageSize
	}
	return NewPager(func(ctx context.Context, page int, search string) (model.Page[model.Athlete], error) {
		return c.Users(ctx, UserQuery{
			PageQuery: PageQuery{Page: page, Size: size},
			Search:    search,
			RoleIDs:   roleIDs,
			TeamIDs:   teamIDs,
		})
	}, func(a model.Athlete) int { return a.ID })
}

// EventPager pages through upcoming events for the event selector.
func (c *Client) EventPager() *Pager[model.Event] {
	return NewPager(func(ctx context.Context, page int, search string) (model.Page[model.Event], error) {
		return c.Events(ctx, EventQuery{
			PageQuery: PageQuery{Page: page, Size: EventPageSize},
			Name:      search,
			Upcoming:  true,
		})
	}, func(e model.Event) int { return e.ID })
}

// TeamPager pages through teams by name.
func (c *Client) TeamPager(size int) *Pager[model.Team] {
	if size <= 0 {
		size = AthletePageSize
	}
	return NewPager(func(ctx context.Context, page int, search string) (model.Page[model.Team], error) {
		return c.Teams(ctx, NameQuery{PageQuery: PageQuery{Page: page, Size: size}, Name: search})
	}, func(t model.Team) int { return t.ID })
}

// HillPager pages through hills by name.
func (c *Client) HillPager(size int) *Pager[model.Hill] {
	if size <= 0 {
		size = AthletePageSize
	}
	return NewPager(func(ctx context.Context, page int, search string) (model.Page[model.Hill], error) {
		return c.Hills(ctx, NameQuery{PageQuery: PageQuery{Page: page, Size: size}, Name: search})
	}, func(h model.Hill) int { return h.ID })
}
