package service_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/jumpboard/internal/adapters/backend"
	service "github.com/okian/jumpboard/internal/app"
	"github.com/okian/jumpboard/internal/domain/model"
)

type fakeDirectory struct {
	athletes [][]model.Athlete
	sizes    []int
	searches []string
	listErr  error
	me       model.Athlete
	meErr    error
	roleIDs  []int
	teamIDs  []int
}

func pageOf[T any](pages [][]T, page int) model.Page[T] {
	if page >= len(pages) {
		return model.Page[T]{TotalPages: len(pages), Number: page}
	}
	return model.Page[T]{Content: pages[page], TotalPages: len(pages), Number: page}
}

func (f *fakeDirectory) AthletePager(size int, roleIDs, teamIDs []int) *backend.Pager[model.Athlete] {
	f.sizes = append(f.sizes, size)
	f.roleIDs, f.teamIDs = roleIDs, teamIDs
	return backend.NewPager(func(_ context.Context, page int, search string) (model.Page[model.Athlete], error) {
		f.searches = append(f.searches, search)
		if f.listErr != nil {
			return model.Page[model.Athlete]{}, f.listErr
		}
		return pageOf(f.athletes, page), nil
	}, func(a model.Athlete) int { return a.ID })
}

func (f *fakeDirectory) EventPager() *backend.Pager[model.Event] {
	return backend.NewPager(func(context.Context, int, string) (model.Page[model.Event], error) {
		return pageOf([][]model.Event{{{ID: 5, Name: "Puchar"}}}, 0), nil
	}, func(e model.Event) int { return e.ID })
}

func (f *fakeDirectory) TeamPager(size int) *backend.Pager[model.Team] {
	f.sizes = append(f.sizes, size)
	return backend.NewPager(func(context.Context, int, string) (model.Page[model.Team], error) {
		return model.Page[model.Team]{}, nil
	}, func(t model.Team) int { return t.ID })
}

func (f *fakeDirectory) HillPager(size int) *backend.Pager[model.Hill] {
	f.sizes = append(f.sizes, size)
	return backend.NewPager(func(context.Context, int, string) (model.Page[model.Hill], error) {
		return model.Page[model.Hill]{Content: []model.Hill{{ID: 2}}, TotalPages: 1}, nil
	}, func(h model.Hill) int { return h.ID })
}

func (f *fakeDirectory) CurrentUser(context.Context) (model.Athlete, error) {
	return f.me, f.meErr
}

func TestSelectors(t *testing.T) {
	Convey("Given a service with a directory", t, func() {
		dir := &fakeDirectory{athletes: [][]model.Athlete{
			{{ID: 1}, {ID: 2}, {ID: 3}},
			{{ID: 4}},
		}}
		svc := service.New(&fakeBackend{}, service.WithDirectory(dir), service.WithSelectorPageSize(3))
		ctx := context.Background()

		Convey("When the first athlete page is loaded", func() {
			page, err := svc.Athletes(ctx, service.SelectorQuery{
				Search: "a", Exclude: []int{2}, RoleIDs: []int{6}, TeamIDs: []int{7},
			})

			Convey("Then picked athletes are hidden and the next page is announced", func() {
				So(err, ShouldBeNil)
				So(page.Items, ShouldResemble, []model.Athlete{{ID: 1}, {ID: 3}})
				So(page.Page, ShouldEqual, 0)
				So(page.NextPage, ShouldEqual, 1)
				So(page.HasMore, ShouldBeTrue)
				So(dir.sizes, ShouldResemble, []int{3})
				So(dir.searches, ShouldResemble, []string{"a"})
				So(dir.roleIDs, ShouldResemble, []int{6})
				So(dir.teamIDs, ShouldResemble, []int{7})
			})
		})

		Convey("When the last page is loaded", func() {
			page, err := svc.Athletes(ctx, service.SelectorQuery{Page: 1})
			So(err, ShouldBeNil)
			So(page.Items, ShouldResemble, []model.Athlete{{ID: 4}})
			So(page.HasMore, ShouldBeFalse)
		})

		Convey("When a page past the end is loaded", func() {
			page, err := svc.Athletes(ctx, service.SelectorQuery{Page: 9})
			So(err, ShouldBeNil)
			So(page.Items, ShouldNotBeNil)
			So(page.Items, ShouldBeEmpty)
			So(page.HasMore, ShouldBeFalse)
		})

		Convey("When the listing fails", func() {
			dir.listErr = backend.ErrUnauthorized
			_, err := svc.Athletes(ctx, service.SelectorQuery{})
			So(errors.Is(err, service.ErrListing), ShouldBeTrue)
			So(errors.Is(err, backend.ErrUnauthorized), ShouldBeTrue)
		})

		Convey("When the other selectors are used", func() {
			events, err := svc.Events(ctx, service.SelectorQuery{})
			So(err, ShouldBeNil)
			So(events.Items[0].Name, ShouldEqual, "Puchar")

			teams, err := svc.Teams(ctx, service.SelectorQuery{})
			So(err, ShouldBeNil)
			So(teams.Items, ShouldBeEmpty)

			hills, err := svc.Hills(ctx, service.SelectorQuery{})
			So(err, ShouldBeNil)
			So(hills.Items, ShouldHaveLength, 1)
			So(dir.sizes, ShouldResemble, []int{3, 3})
		})

		Convey("When the profile is loaded", func() {
			dir.me = model.Athlete{ID: 9, Roles: model.Roles{model.RoleTrainer}}
			profile, err := svc.Profile(ctx)
			So(err, ShouldBeNil)
			So(profile.User.ID, ShouldEqual, 9)

			routes := make([]string, 0, len(profile.Navigation))
			for _, item := range profile.Navigation {
				routes = append(routes, item.Route)
			}
			So(routes, ShouldContain, "/athletes")
			So(routes, ShouldNotContain, "/users")
		})

		Convey("When the profile lookup fails", func() {
			dir.meErr = backend.ErrUnauthorized
			_, err := svc.Profile(ctx)
			So(errors.Is(err, backend.ErrUnauthorized), ShouldBeTrue)
		})
	})

	Convey("Given a service without a directory", t, func() {
		svc := service.New(&fakeBackend{})
		_, err := svc.Athletes(context.Background(), service.SelectorQuery{})
		So(errors.Is(err, service.ErrNoDirectory), ShouldBeTrue)
		_, err = svc.Profile(context.Background())
		So(errors.Is(err, service.ErrNoDirectory), ShouldBeTrue)
	})
}
