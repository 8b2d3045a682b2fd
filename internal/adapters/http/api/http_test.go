package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/jumpboard/internal/adapters/backend"
	"github.com/okian/jumpboard/internal/adapters/http/api"
	service "github.com/okian/jumpboard/internal/app"
	"github.com/okian/jumpboard/internal/domain/access"
	"github.com/okian/jumpboard/internal/domain/comparison"
	"github.com/okian/jumpboard/internal/domain/model"
)

// mockDependencies records compare requests and answers with canned values.
type mockDependencies struct {
	got        []service.CompareRequest
	comparison service.Comparison
	err        error

	selectorQueries []service.SelectorQuery
	athletes        service.SelectorPage[model.Athlete]
	selectorErr     error
	token           string
}

func (m *mockDependencies) Compare(_ context.Context, req service.CompareRequest) (service.Comparison, error) {
	m.got = append(m.got, req)
	return m.comparison, m.err
}

func (m *mockDependencies) Metrics() []comparison.MetricInfo {
	return comparison.Metrics()
}

func (m *mockDependencies) Navigation(roles []string) []access.NavItem {
	return access.VisibleItems(roles)
}

func (m *mockDependencies) Authorize(route string, authenticated bool, roles []string) access.Decision {
	return access.Check(route, authenticated, roles)
}

func (m *mockDependencies) Athletes(_ context.Context, q service.SelectorQuery) (service.SelectorPage[model.Athlete], error) {
	m.selectorQueries = append(m.selectorQueries, q)
	return m.athletes, m.selectorErr
}

func (m *mockDependencies) Events(_ context.Context, q service.SelectorQuery) (service.SelectorPage[model.Event], error) {
	m.selectorQueries = append(m.selectorQueries, q)
	return service.SelectorPage[model.Event]{Items: []model.Event{{ID: 3, Name: "Puchar"}}}, m.selectorErr
}

func (m *mockDependencies) Teams(_ context.Context, q service.SelectorQuery) (service.SelectorPage[model.Team], error) {
	m.selectorQueries = append(m.selectorQueries, q)
	return service.SelectorPage[model.Team]{Items: []model.Team{}}, m.selectorErr
}

func (m *mockDependencies) Hills(_ context.Context, q service.SelectorQuery) (service.SelectorPage[model.Hill], error) {
	m.selectorQueries = append(m.selectorQueries, q)
	return service.SelectorPage[model.Hill]{Items: []model.Hill{}}, m.selectorErr
}

func (m *mockDependencies) Profile(ctx context.Context) (service.Profile, error) {
	m.token, _ = backend.TokenFrom(ctx)
	if m.selectorErr != nil {
		return service.Profile{}, m.selectorErr
	}
	return service.Profile{User: model.Athlete{ID: 1, FirstName: "Ada"}}, nil
}

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return mux
}

func get(mux http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("Then the health endpoint serves metrics", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "jumpboard_client_")
		})

		Convey("Then every response carries a request id", func() {
			w := get(mux, "/metrics/catalog")
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
		})

		Convey("Then a valid caller request id is echoed", func() {
			req := httptest.NewRequest(http.MethodGet, "/metrics/catalog", nil)
			req.Header.Set(api.RequestIDHeader, "3f1d6c2e-8a8b-4c55-9b1e-0f6f7f1d2a10")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "3f1d6c2e-8a8b-4c55-9b1e-0f6f7f1d2a10")
		})

		Convey("Then other methods are not routed", func() {
			req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader("{}"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestCompareHandler(t *testing.T) {
	Convey("Given the compare endpoint", t, func() {
		v := 120.0
		deps := &mockDependencies{comparison: service.Comparison{
			Chart: comparison.Chart{
				Metric: comparison.JumpLength,
				Label:  comparison.JumpLength.Label(),
				Series: []comparison.Series{{AthleteID: 1, Name: "Anna", Color: comparison.ColorOf(1)}},
				Rows: []comparison.Row{{
					Slot:   comparison.Slot{Day: "2024-01-10", EventName: "Cup", Attempt: 1},
					Label:  "2024-01-10\nCup\nPróba 1",
					Values: comparison.Values{1: &v, 2: nil},
				}},
			},
			From: "2024-01-01",
			To:   "2024-01-31",
		}}
		mux := newMux(deps)

		Convey("When the query is valid", func() {
			w := get(mux, "/compare?athleteIds=1&athleteIds=2,3&metric=gate&startDate=2024-01-01&endDate=2024-01-31&eventId=4&sameEventsOnly=true")

			Convey("Then the request is forwarded to the service", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.got, ShouldHaveLength, 1)
				got := deps.got[0]
				So(got.AthleteIDs, ShouldResemble, []int{1, 2, 3})
				So(got.Metric, ShouldEqual, comparison.Gate)
				So(got.EventID, ShouldEqual, 4)
				So(got.SameEventsOnly, ShouldBeTrue)
				So(got.From.Format("2006-01-02"), ShouldEqual, "2024-01-01")
			})

			Convey("Then the chart is written with explicit gaps", func() {
				body := w.Body.String()
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				So(body, ShouldContainSubstring, `"values":{"1":120,"2":null}`)
				So(body, ShouldContainSubstring, `"connectNulls":false`)
				So(body, ShouldContainSubstring, `"startDate":"2024-01-01"`)
			})
		})

		Convey("When the query is malformed", func() {
			for _, target := range []string{
				"/compare?athleteIds=abc",
				"/compare?athleteIds=0",
				"/compare?athleteIds=1&startDate=01.01.2024",
				"/compare?athleteIds=1&endDate=tomorrow",
				"/compare?athleteIds=1&eventId=x",
				"/compare?athleteIds=1&sameEventsOnly=maybe",
			} {
				w := get(mux, target)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			}
			So(deps.got, ShouldBeEmpty)
		})

		Convey("When the service fails", func() {
			cases := []struct {
				err    error
				status int
				code   string
			}{
				{service.ErrNoAthletes, http.StatusBadRequest, "bad_request"},
				{fmt.Errorf("%w: late", service.ErrDateRange), http.StatusBadRequest, "bad_request"},
				{fmt.Errorf("%w: %w", service.ErrFetchResults, backend.ErrUnauthorized), http.StatusUnauthorized, "unauthorized"},
				{fmt.Errorf("%w: %w", service.ErrAthleteLookup, backend.ErrNotFound), http.StatusNotFound, "not_found"},
				{fmt.Errorf("%w: %w", service.ErrFetchResults, backend.ErrServer), http.StatusBadGateway, "upstream_error"},
				{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
			}
			for _, tc := range cases {
				deps.err = tc.err
				w := get(mux, "/compare?athleteIds=1&startDate=2024-01-01&endDate=2024-01-31")
				So(w.Code, ShouldEqual, tc.status)
				body := decodeError(w)
				So(body["code"], ShouldEqual, tc.code)
				So(body["message"], ShouldStartWith, "api.compare: ")
			}
		})
	})
}

func TestCatalogAndNavigation(t *testing.T) {
	Convey("Given the catalog and navigation endpoints", t, func() {
		mux := newMux(&mockDependencies{})

		Convey("The catalog lists every metric with its label", func() {
			w := get(mux, "/metrics/catalog")
			So(w.Code, ShouldEqual, http.StatusOK)
			var items []comparison.MetricInfo
			So(json.Unmarshal(w.Body.Bytes(), &items), ShouldBeNil)
			So(items, ShouldHaveLength, 7)
			So(items[0].Label, ShouldEqual, "Długość skoku")
		})

		Convey("Navigation is filtered by roles", func() {
			var resp struct {
				Items []access.NavItem `json:"items"`
			}
			w := get(mux, "/navigation?roles=TRAINER")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			routes := make([]string, 0, len(resp.Items))
			for _, item := range resp.Items {
				routes = append(routes, item.Route)
			}
			So(routes, ShouldContain, "/athletes")
			So(routes, ShouldNotContain, "/users")
		})

		Convey("The route guard is exposed", func() {
			w := get(mux, "/navigation/check?route=/injuries&roles=INJURY_MANAGER")
			So(w.Body.String(), ShouldContainSubstring, `"decision":"allow"`)

			w = get(mux, "/navigation/check?route=/users&roles="+model.RoleAthlete)
			So(w.Body.String(), ShouldContainSubstring, `"decision":"forbidden"`)

			w = get(mux, "/navigation/check?route=/compare&authenticated=false")
			So(w.Body.String(), ShouldContainSubstring, `"redirect":"/login"`)

			w = get(mux, "/navigation/check?route=/login&authenticated=false")
			So(w.Body.String(), ShouldContainSubstring, `"decision":"allow"`)
			So(w.Body.String(), ShouldNotContainSubstring, `"redirect"`)

			w = get(mux, "/navigation/check?route=/change-password")
			So(w.Body.String(), ShouldContainSubstring, `"decision":"allow"`)

			w = get(mux, "/navigation/check?route=/nowhere")
			So(w.Body.String(), ShouldContainSubstring, `"decision":"not_found"`)
			So(w.Body.String(), ShouldContainSubstring, `"redirect":"/"`)

			w = get(mux, "/navigation/check")
			So(w.Code, ShouldEqual, http.StatusBadRequest)

			w = get(mux, "/navigation/check?route=/&authenticated=nah")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given op scoped errors", t, func() {
		cause := errors.New("disk on fire")

		err := api.WrapKind("api.op", api.ErrBadRequest, cause)
		So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
		So(errors.Is(err, cause), ShouldBeTrue)
		So(err.Error(), ShouldEqual, "api.op: bad request: disk on fire")

		So(api.NewKind("api.op", api.ErrBadRequest).Error(), ShouldEqual, "api.op: bad request")
		So(api.Wrap("api.op", nil), ShouldBeNil)

		var apiErr *api.Error
		So(errors.As(api.Wrap("api.op", cause), &apiErr), ShouldBeTrue)
		So(apiErr.Op, ShouldEqual, "api.op")
	})
}

func TestSelectorHandler(t *testing.T) {
	Convey("Given the selector endpoints", t, func() {
		deps := &mockDependencies{athletes: service.SelectorPage[model.Athlete]{
			Items:    []model.Athlete{{ID: 4, FirstName: "Kamil"}},
			Page:     1,
			NextPage: 2,
			HasMore:  true,
		}}
		mux := newMux(deps)

		Convey("When athletes are requested with filters", func() {
			w := get(mux, "/selectors/athletes?search=kam&page=1&exclude=2,3&roleIds=6&teamIds=7&teamIds=8")

			Convey("Then the query is parsed and the page returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.selectorQueries, ShouldHaveLength, 1)
				So(deps.selectorQueries[0], ShouldResemble, service.SelectorQuery{
					Search:  "kam",
					Page:    1,
					Exclude: []int{2, 3},
					RoleIDs: []int{6},
					TeamIDs: []int{7, 8},
				})
				So(w.Body.String(), ShouldContainSubstring, `"nextPage":2`)
				So(w.Body.String(), ShouldContainSubstring, `"hasMore":true`)
			})
		})

		Convey("When events, teams and hills are requested", func() {
			So(get(mux, "/selectors/events?search=Puchar").Body.String(), ShouldContainSubstring, `"Puchar"`)
			So(get(mux, "/selectors/teams").Code, ShouldEqual, http.StatusOK)
			So(get(mux, "/selectors/hills").Code, ShouldEqual, http.StatusOK)
		})

		Convey("When the page or exclusions are invalid", func() {
			So(get(mux, "/selectors/athletes?page=-1").Code, ShouldEqual, http.StatusBadRequest)
			So(get(mux, "/selectors/events?exclude=x").Code, ShouldEqual, http.StatusBadRequest)
			So(deps.selectorQueries, ShouldBeEmpty)
		})

		Convey("When the backend rejects the listing", func() {
			deps.selectorErr = fmt.Errorf("%w: %w", service.ErrListing, backend.ErrUnauthorized)
			So(get(mux, "/selectors/athletes").Code, ShouldEqual, http.StatusUnauthorized)

			deps.selectorErr = fmt.Errorf("%w: %w", service.ErrListing, backend.ErrServer)
			So(get(mux, "/selectors/hills").Code, ShouldEqual, http.StatusBadGateway)

			deps.selectorErr = service.ErrNoDirectory
			So(get(mux, "/me").Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When the caller sends a bearer token", func() {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer caller-token")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it reaches the service through the context", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.token, ShouldEqual, "caller-token")
				So(w.Body.String(), ShouldContainSubstring, `"Ada"`)
			})
		})

		Convey("When no token is sent", func() {
			So(get(mux, "/me").Code, ShouldEqual, http.StatusOK)
			So(deps.token, ShouldBeEmpty)
		})
	})
}
