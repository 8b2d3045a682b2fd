package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/jumpboard/internal/adapters/backend"
	"github.com/okian/jumpboard/internal/domain/access"
	"github.com/okian/jumpboard/internal/domain/model"
	"github.com/okian/jumpboard/pkg/logger"
)

// Sentinel kinds for selector errors.
var (
	ErrNoDirectory = errors.New("selectors are not configured")
	ErrListing     = errors.New("loading listing failed")
)

// Directory is the part of the club backend the selectors page through.
type Directory interface {
	AthletePager(size int, roleIDs, teamIDs []int) *backend.Pager[model.Athlete]
	EventPager() *backend.Pager[model.Event]
	TeamPager(size int) *backend.Pager[model.Team]
	HillPager(size int) *backend.Pager[model.Hill]
	CurrentUser(ctx context.Context) (model.Athlete, error)
}

// WithDirectory enables the selectors and the profile lookup.
func WithDirectory(d Directory) Option {
	return func(s *Service) {
		if d != nil {
			s.directory = d
		}
	}
}

// WithSelectorPageSize sets how many athletes, teams or hills one selector
// page holds.
func WithSelectorPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// SelectorQuery asks for one page of a selector listing.
type SelectorQuery struct {
	Search string
	Page   int
	// Exclude hides ids already picked.
	Exclude []int
	RoleIDs []int
	TeamIDs []int
}

// SelectorPage is one page of a selector listing. NextPage is only
// meaningful while HasMore is true.
type SelectorPage[T any] struct {
	Items    []T  `json:"items"`
	Page     int  `json:"page"`
	NextPage int  `json:"nextPage"`
	HasMore  bool `json:"hasMore"`
}

// Profile is the signed-in user together with their menu.
type Profile struct {
	User       model.Athlete    `json:"user"`
	Navigation []access.NavItem `json:"navigation"`
}

// Athletes loads one page of the athlete selector.
func (s *Service) Athletes(ctx context.Context, q SelectorQuery) (SelectorPage[model.Athlete], error) {
	if s.directory == nil {
		return SelectorPage[model.Athlete]{}, ErrNoDirectory
	}
	return selectPage(ctx, s, "athletes", s.directory.AthletePager(s.pageSize, q.RoleIDs, q.TeamIDs), q)
}

// Events loads one page of the upcoming event selector.
func (s *Service) Events(ctx context.Context, q SelectorQuery) (SelectorPage[model.Event], error) {
	if s.directory == nil {
		return SelectorPage[model.Event]{}, ErrNoDirectory
	}
	return selectPage(ctx, s, "events", s.directory.EventPager(), q)
}

// Teams loads one page of the team selector.
func (s *Service) Teams(ctx context.Context, q SelectorQuery) (SelectorPage[model.Team], error) {
	if s.directory == nil {
		return SelectorPage[model.Team]{}, ErrNoDirectory
	}
	return selectPage(ctx, s, "teams", s.directory.TeamPager(s.pageSize), q)
}

// Hills loads one page of the hill selector.
func (s *Service) Hills(ctx context.Context, q SelectorQuery) (SelectorPage[model.Hill], error) {
	if s.directory == nil {
		return SelectorPage[model.Hill]{}, ErrNoDirectory
	}
	return selectPage(ctx, s, "hills", s.directory.HillPager(s.pageSize), q)
}

// Profile returns the signed-in user and the menu their roles allow.
func (s *Service) Profile(ctx context.Context) (Profile, error) {
	if s.directory == nil {
		return Profile{}, ErrNoDirectory
	}
	user, err := s.directory.CurrentUser(ctx)
	if err != nil {
		return Profile{}, err
	}
	return Profile{User: user, Navigation: access.VisibleItems(user.Roles)}, nil
}

func selectPage[T any](
	ctx context.Context, s *Service, listing string, p *backend.Pager[T], q SelectorQuery,
) (SelectorPage[T], error) {
	p.Exclude(q.Exclude...)
	p.ResetAt(q.Search, q.Page)

	items, err := p.Next(ctx)
	if err != nil {
		s.logger.Warn(ctx, "selector listing failed",
			logger.String("listing", listing),
			logger.Error(err))
		return SelectorPage[T]{}, fmt.Errorf("%w: %s: %w", ErrListing, listing, err)
	}
	if items == nil {
		items = make([]T, 0)
	}
	return SelectorPage[T]{
		Items:    items,
		Page:     max(q.Page, 0),
		NextPage: p.Position(),
		HasMore:  p.HasMore(),
	}, nil
}
