package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/jumpboard/internal/adapters/backend"
	service "github.com/okian/jumpboard/internal/app"
	"github.com/okian/jumpboard/internal/domain/access"
	"github.com/okian/jumpboard/internal/domain/comparison"
	"github.com/okian/jumpboard/internal/domain/model"
)

type fakeBackend struct {
	results    []model.Result
	users      map[int]model.Athlete
	resultsErr error
	queries    []backend.ResultQuery
	lookups    []int
}

func (f *fakeBackend) Results(_ context.Context, q backend.ResultQuery) ([]model.Result, error) {
	f.queries = append(f.queries, q)
	return f.results, f.resultsErr
}

func (f *fakeBackend) User(_ context.Context, id int) (model.Athlete, error) {
	f.lookups = append(f.lookups, id)
	a, ok := f.users[id]
	if !ok {
		return model.Athlete{}, backend.ErrNotFound
	}
	return a, nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func result(athlete model.Athlete, event *model.Event, attempt int, length float64) model.Result {
	a := athlete
	return model.Result{
		Event:         event,
		Athlete:       &a,
		AttemptNumber: &attempt,
		JumpLength:    model.Num(length),
	}
}

func TestCompareValidation(t *testing.T) {
	Convey("Given a compare service", t, func() {
		fb := &fakeBackend{}
		svc := service.New(fb, service.WithMaxAthletes(2))
		ctx := context.Background()
		from, to := day("2024-01-01"), day("2024-02-01")

		Convey("When no athlete is selected", func() {
			_, err := svc.Compare(ctx, service.CompareRequest{From: from, To: to})
			So(errors.Is(err, service.ErrNoAthletes), ShouldBeTrue)
			So(service.UserMessage(err), ShouldEqual, service.MessageNoAthletes)
			So(fb.queries, ShouldBeEmpty)
		})

		Convey("When the date range is incomplete", func() {
			_, err := svc.Compare(ctx, service.CompareRequest{AthleteIDs: []int{1}, From: from})
			So(errors.Is(err, service.ErrDateRange), ShouldBeTrue)
			So(service.UserMessage(err), ShouldEqual, service.MessageDateRange)
		})

		Convey("When from is after to", func() {
			_, err := svc.Compare(ctx, service.CompareRequest{AthleteIDs: []int{1}, From: to, To: from})
			So(errors.Is(err, service.ErrDateRange), ShouldBeTrue)
		})

		Convey("When too many athletes are selected", func() {
			_, err := svc.Compare(ctx, service.CompareRequest{AthleteIDs: []int{1, 2, 3}, From: from, To: to})
			So(errors.Is(err, service.ErrTooManyAthletes), ShouldBeTrue)
		})

		Convey("When the same athlete is listed twice", func() {
			fb.users = map[int]model.Athlete{1: {ID: 1, FirstName: "A"}, 2: {ID: 2, FirstName: "B"}}
			_, err := svc.Compare(ctx, service.CompareRequest{AthleteIDs: []int{1, 2, 1}, From: from, To: to})
			So(err, ShouldBeNil)
			So(fb.queries[0].AthleteIDs, ShouldResemble, []int{1, 2})
		})
	})
}

func TestCompare(t *testing.T) {
	Convey("Given results for two athletes", t, func() {
		anna := model.Athlete{ID: 1, FirstName: "Anna", LastName: "Nowak"}
		ben := model.Athlete{ID: 2, FirstName: "Ben", LastName: "Kot"}
		cup := &model.Event{ID: 10, Name: "Cup", StartDate: "2024-01-10T10:00:00"}
		camp := &model.Event{ID: 11, Name: "Camp", StartDate: "2024-01-20T09:00:00"}

		fb := &fakeBackend{
			results: []model.Result{
				result(anna, cup, 1, 120),
				result(ben, cup, 1, 115),
				result(anna, cup, 2, 118),
				result(anna, camp, 1, 100),
			},
			users: map[int]model.Athlete{},
		}
		var notes []service.Notification
		svc := service.New(fb, service.WithNotifier(service.NotifierFunc(
			func(_ context.Context, n service.Notification) { notes = append(notes, n) })))
		ctx := context.Background()
		req := service.CompareRequest{
			AthleteIDs: []int{1, 2},
			EventID:    0,
			From:       day("2024-01-01"),
			To:         day("2024-01-31"),
		}

		Convey("When comparing jump length", func() {
			out, err := svc.Compare(ctx, req)

			Convey("Then the backend is queried with the filters", func() {
				So(err, ShouldBeNil)
				So(fb.queries, ShouldHaveLength, 1)
				So(fb.queries[0].AthleteIDs, ShouldResemble, []int{1, 2})
				So(fb.queries[0].StartDate.Equal(req.From), ShouldBeTrue)
				So(fb.lookups, ShouldBeEmpty)
			})

			Convey("Then one row per slot is built with gaps left empty", func() {
				So(out.Metric, ShouldEqual, comparison.JumpLength)
				So(out.Rows, ShouldHaveLength, 3)
				So(out.Rows[0].Label, ShouldEqual, "2024-01-10\nCup\nPróba 1")
				So(*out.Rows[1].Values[1], ShouldEqual, 118.0)
				So(out.Rows[1].Values[2], ShouldBeNil)
				So(out.ConnectNulls, ShouldBeFalse)
				So(out.From, ShouldEqual, "2024-01-01")
				So(out.Message, ShouldBeEmpty)
			})

			Convey("Then series keep the request order", func() {
				So(out.Series, ShouldHaveLength, 2)
				So(out.Series[0].Name, ShouldEqual, "Anna Nowak")
				So(out.Series[1].Color, ShouldEqual, comparison.ColorOf(2))
			})
		})

		Convey("When only common events are requested", func() {
			req.SameEventsOnly = true
			out, err := svc.Compare(ctx, req)
			So(err, ShouldBeNil)
			So(out.Rows, ShouldHaveLength, 2)
			So(out.Rows[1].Slot.EventName, ShouldEqual, "Cup")
		})

		Convey("When an athlete has no results", func() {
			fb.users[3] = model.Athlete{ID: 3, FirstName: "Cyd"}
			req.AthleteIDs = []int{3}
			out, err := svc.Compare(ctx, req)

			Convey("Then the athlete is looked up and nothing is drawn", func() {
				So(err, ShouldBeNil)
				So(fb.lookups, ShouldResemble, []int{3})
				So(out.Series[0].Name, ShouldEqual, "Cyd")
				So(out.Rows, ShouldBeEmpty)
				So(out.Message, ShouldEqual, service.MessageNoResults)
			})
		})

		Convey("When the caller passes resolved athletes", func() {
			req.AthleteIDs = nil
			req.Athletes = []model.Athlete{ben}
			req.Metric = "unknownMetric"
			out, err := svc.Compare(ctx, req)

			Convey("Then an unknown metric yields empty values", func() {
				So(err, ShouldBeNil)
				So(out.Rows, ShouldHaveLength, 1)
				So(out.Rows[0].Values[2], ShouldBeNil)
				So(out.Label, ShouldEqual, "unknownMetric")
			})
		})

		Convey("When the backend fails", func() {
			fb.resultsErr = backend.ErrServer
			_, err := svc.Compare(ctx, req)

			Convey("Then the user is notified and the error returned", func() {
				So(errors.Is(err, service.ErrFetchResults), ShouldBeTrue)
				So(errors.Is(err, backend.ErrServer), ShouldBeTrue)
				So(notes, ShouldHaveLength, 1)
				So(notes[0].Message, ShouldEqual, service.MessageFetchFailed)
				So(notes[0].Level, ShouldEqual, "error")
			})
		})

		Convey("When an athlete cannot be looked up", func() {
			req.AthleteIDs = []int{1, 99}
			_, err := svc.Compare(ctx, req)
			So(errors.Is(err, service.ErrAthleteLookup), ShouldBeTrue)
			So(errors.Is(err, backend.ErrNotFound), ShouldBeTrue)
			So(notes, ShouldHaveLength, 1)
		})
	})
}

func TestCatalogAndNavigation(t *testing.T) {
	Convey("Given a compare service", t, func() {
		svc := service.New(&fakeBackend{})

		So(svc.Metrics(), ShouldHaveLength, 7)
		So(svc.Metrics()[0].Key, ShouldEqual, comparison.JumpLength)

		routes := func(roles ...string) []string {
			var out []string
			for _, item := range svc.Navigation(roles) {
				out = append(out, item.Route)
			}
			return out
		}
		So(routes(), ShouldNotContain, "/users")
		So(routes(model.RoleAdmin), ShouldContain, "/injuries")
		So(routes(model.RoleTrainer), ShouldContain, "/suggestion")

		So(svc.Authorize("/users", true, []string{model.RoleAthlete}), ShouldEqual, access.Forbidden)
		So(svc.Authorize("/users/7", true, nil), ShouldEqual, access.Allow)
		So(svc.Authorize("/compare", false, nil), ShouldEqual, access.RedirectToLogin)
	})
}
