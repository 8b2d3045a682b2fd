package backend

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/jumpboard/internal/domain/model"
)

const dateLayout = "2006-01-02"

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse is the answer of POST /auth/login.
type LoginResponse struct {
	Token              string `json:"token"`
	MustChangePassword bool   `json:"mustChangePassword"`
}

// Login authenticates and stores the issued token for later requests.
func (c *Client) Login(ctx context.Context, login, password string) (LoginResponse, error) {
	if strings.TrimSpace(login) == "" || password == "" {
		return LoginResponse{}, ErrMissingCredential
	}
	var out LoginResponse
	err := c.do(ctx, request{
		endpoint: "/auth/login",
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     loginRequest{Login: login, Password: password},
	}, &out)
	if err != nil {
		return LoginResponse{}, err
	}
	if out.Token == "" {
		return LoginResponse{}, fmt.Errorf("%w: login response carries no token", ErrDecode)
	}
	c.tokens.SetToken(out.Token)
	return out, nil
}

// Logout forgets the session token.
func (c *Client) Logout() {
	c.tokens.Clear()
}

// CurrentUser returns the user the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (model.Athlete, error) {
	var out model.Athlete
	err := c.do(ctx, request{endpoint: "/users/me", method: http.MethodGet, path: "/users/me"}, &out)
	return out, err
}

// User fetches one user by id.
func (c *Client) User(ctx context.Context, id int) (model.Athlete, error) {
	var out model.Athlete
	err := c.do(ctx, request{
		endpoint: "/users/{id}",
		method:   http.MethodGet,
		path:     "/users/" + strconv.Itoa(id),
	}, &out)
	return out, err
}

// PageQuery selects one page of a listing. A zero Size leaves the backend
// default in place.
type PageQuery struct {
	Page int
	Size int
}

func (q PageQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

// UserQuery filters GET /users.
type UserQuery struct {
	PageQuery
	Search  string
	RoleIDs []int
	TeamIDs []int
}

// Users lists users matching q.
func (c *Client) Users(ctx context.Context, q UserQuery) (model.Page[model.Athlete], error) {
	v := q.values()
	setString(v, "search", q.Search)
	addInts(v, "roleIds", q.RoleIDs)
	addInts(v, "teamIds", q.TeamIDs)

	var out model.Page[model.Athlete]
	err := c.do(ctx, request{endpoint: "/users", method: http.MethodGet, path: "/users", query: v}, &out)
	return out, err
}

// NameQuery filters listings searchable by name: teams and hills.
type NameQuery struct {
	PageQuery
	Name string
}

// Teams lists teams matching q.
func (c *Client) Teams(ctx context.Context, q NameQuery) (model.Page[model.Team], error) {
	v := q.values()
	setString(v, "name", q.Name)

	var out model.Page[model.Team]
	err := c.do(ctx, request{endpoint: "/teams", method: http.MethodGet, path: "/teams", query: v}, &out)
	return out, err
}

// Hills lists hills matching q.
func (c *Client) Hills(ctx context.Context, q NameQuery) (model.Page[model.Hill], error) {
	v := q.values()
	setString(v, "name", q.Name)

	var out model.Page[model.Hill]
	err := c.do(ctx, request{endpoint: "/hills", method: http.MethodGet, path: "/hills", query: v}, &out)
	return out, err
}

// EventQuery filters GET /events.
type EventQuery struct {
	PageQuery
	Name     string
	HillID   int
	Upcoming bool
}

// Events lists events matching q.
func (c *Client) Events(ctx context.Context, q EventQuery) (model.Page[model.Event], error) {
	v := q.values()
	setString(v, "name", q.Name)
	if q.HillID > 0 {
		v.Set("hillId", strconv.Itoa(q.HillID))
	}
	if q.Upcoming {
		v.Set("upcoming", "true")
	}

	var out model.Page[model.Event]
	err := c.do(ctx, request{endpoint: "/events", method: http.MethodGet, path: "/events", query: v}, &out)
	return out, err
}

// ResultQuery filters GET /results. Zero values are left out of the query.
type ResultQuery struct {
	EventID    int
	AthleteIDs []int
	Seasons    []string
	StartDate  time.Time
	EndDate    time.Time
	// Page and Size are only sent when Size is set; the backend returns
	// every match otherwise.
	Page int
	Size int
}

func (q ResultQuery) values() url.Values {
	v := url.Values{}
	if q.EventID > 0 {
		v.Set("eventId", strconv.Itoa(q.EventID))
	}
	addInts(v, "athleteIds", q.AthleteIDs)
	for _, s := range q.Seasons {
		v.Add("seasons", s)
	}
	if !q.StartDate.IsZero() {
		v.Set("startDate", q.StartDate.Format(dateLayout))
	}
	if !q.EndDate.IsZero() {
		v.Set("endDate", q.EndDate.Format(dateLayout))
	}
	if q.Size > 0 {
		v.Set("page", strconv.Itoa(q.Page))
		v.Set("size", strconv.Itoa(q.Size))
	}
	return v
}

// Results fetches the jump results matching q. The backend answers with a
// paging envelope; a bare array is accepted as well.
func (c *Client) Results(ctx context.Context, q ResultQuery) ([]model.Result, error) {
	var raw json.RawMessage
	err := c.do(ctx, request{
		endpoint: "/results",
		method:   http.MethodGet,
		path:     "/results",
		query:    q.values(),
	}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeResults(raw)
}

func decodeResults(raw json.RawMessage) ([]model.Result, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var list []model.Result
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: results: %w", ErrDecode, err)
		}
		return list, nil
	}
	var page model.Page[model.Result]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, fmt.Errorf("%w: results: %w", ErrDecode, err)
	}
	return page.Content, nil
}

func setString(v url.Values, key, val string) {
	if s := strings.TrimSpace(val); s != "" {
		v.Set(key, s)
	}
}

func addInts(v url.Values, key string, ids []int) {
	for _, id := range ids {
		v.Add(key, strconv.Itoa(id))
	}
}
