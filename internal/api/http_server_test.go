package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/export"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type testAPI struct {
	t      *testing.T
	server *httptest.Server
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "api.db"),
	}, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := fixedClock{now: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	bus := events.NewEventBus()
	svc := Services{
		Users:    service.NewUserService(db, &logger),
		Items:    service.NewItemService(db, db, db, db, db, bus, clock, &logger),
		Bookings: service.NewBookingService(db, db, db, bus, clock, &logger),
		Requests: service.NewRequestService(db, db, db, bus, clock, &logger),
	}
	cfg := &config.APIConfig{
		Pagination: config.PaginationConfig{DefaultSize: 10},
		CORS:       config.APICORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	srv := NewHTTPServer(cfg, svc, db, &logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testAPI{t: t, server: ts}
}

// do sends body as JSON with the caller id header when userID > 0.
func (a *testAPI) do(method, path string, userID int64, body any) *http.Response {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set(userIDHeader, fmt.Sprint(userID))
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (a *testAPI) decode(resp *http.Response, wantStatus int, v any) {
	a.t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	require.Equal(a.t, wantStatus, resp.StatusCode, string(raw))
	if v != nil {
		require.NoError(a.t, json.Unmarshal(raw, v))
	}
}

func (a *testAPI) createUser(name, email string) models.User {
	var u models.User
	a.decode(a.do(http.MethodPost, "/users", 0, map[string]string{"name": name, "email": email}), http.StatusOK, &u)
	return u
}

func (a *testAPI) createItem(ownerID int64, name string) models.ItemView {
	var item models.ItemView
	body := map[string]any{"name": name, "description": name + " for rent", "available": true}
	a.decode(a.do(http.MethodPost, "/items", ownerID, body), http.StatusOK, &item)
	return item
}

func TestHealthAndReady(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(http.MethodGet, "/healthz", 0, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))

	resp = api.do(http.MethodGet, "/readyz", 0, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("down") }

func TestReadyUnavailable(t *testing.T) {
	logger := zerolog.Nop()
	srv := NewHTTPServer(&config.APIConfig{}, Services{}, failingPinger{}, &logger)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDPropagated(t *testing.T) {
	logger := zerolog.Nop()
	srv := NewHTTPServer(&config.APIConfig{}, Services{}, nil, &logger)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestUsersEndpoints(t *testing.T) {
	api := newTestAPI(t)

	ann := api.createUser("Ann", "ann@example.com")
	assert.NotZero(t, ann.ID)

	var errBody errorResponse
	api.decode(api.do(http.MethodPost, "/users", 0, map[string]string{"name": "Dup", "email": "ann@example.com"}), http.StatusConflict, &errBody)
	assert.Equal(t, "conflict", errBody.Description)

	api.decode(api.do(http.MethodPost, "/users", 0, map[string]string{"name": "NoMail"}), http.StatusBadRequest, nil)

	var updated models.User
	api.decode(api.do(http.MethodPatch, fmt.Sprintf("/users/%d", ann.ID), 0, map[string]string{"name": "Anna"}), http.StatusOK, &updated)
	assert.Equal(t, "Anna", updated.Name)
	assert.Equal(t, "ann@example.com", updated.Email)

	var users []models.User
	api.decode(api.do(http.MethodGet, "/users", 0, nil), http.StatusOK, &users)
	assert.Len(t, users, 1)

	api.decode(api.do(http.MethodDelete, fmt.Sprintf("/users/%d", ann.ID), 0, nil), http.StatusOK, nil)
	api.decode(api.do(http.MethodGet, fmt.Sprintf("/users/%d", ann.ID), 0, nil), http.StatusNotFound, nil)
	api.decode(api.do(http.MethodGet, "/users/abc", 0, nil), http.StatusBadRequest, nil)
}

func TestCallerHeader(t *testing.T) {
	api := newTestAPI(t)

	api.decode(api.do(http.MethodGet, "/items", 0, nil), http.StatusBadRequest, nil)

	req, err := http.NewRequest(http.MethodGet, api.server.URL+"/items", nil)
	require.NoError(t, err)
	req.Header.Set(userIDHeader, "-3")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	api.decode(api.do(http.MethodGet, "/items", 99, nil), http.StatusNotFound, nil)
}

func TestItemsEndpoints(t *testing.T) {
	api := newTestAPI(t)
	owner := api.createUser("Owner", "owner@example.com")
	other := api.createUser("Other", "other@example.com")

	api.decode(api.do(http.MethodPost, "/items", owner.ID, map[string]any{"name": "Drill", "description": "x"}), http.StatusBadRequest, nil)

	drill := api.createItem(owner.ID, "Drill")
	assert.True(t, drill.Available)
	assert.NotNil(t, drill.Comments)

	api.decode(api.do(http.MethodPatch, fmt.Sprintf("/items/%d", drill.ID), other.ID, map[string]any{"name": "Mine"}), http.StatusForbidden, nil)

	var patched models.ItemView
	api.decode(api.do(http.MethodPatch, fmt.Sprintf("/items/%d", drill.ID), owner.ID, map[string]any{"name": " ", "available": false}), http.StatusOK, &patched)
	assert.Equal(t, "Drill", patched.Name)
	assert.False(t, patched.Available)

	var found []models.ItemView
	api.decode(api.do(http.MethodGet, "/items/search?text=drill", 0, nil), http.StatusOK, &found)
	assert.Empty(t, found)

	api.decode(api.do(http.MethodPatch, fmt.Sprintf("/items/%d", drill.ID), owner.ID, map[string]any{"available": true}), http.StatusOK, nil)
	api.decode(api.do(http.MethodGet, "/items/search?text=DRILL", 0, nil), http.StatusOK, &found)
	require.Len(t, found, 1)

	api.decode(api.do(http.MethodGet, "/items/search?text=", 0, nil), http.StatusOK, &found)
	assert.Empty(t, found)
	api.decode(api.do(http.MethodGet, "/items/search?text=drill&from=-1", 0, nil), http.StatusBadRequest, nil)
	api.decode(api.do(http.MethodGet, "/items/search?text=drill&size=0", 0, nil), http.StatusBadRequest, nil)

	var own []models.ItemView
	api.decode(api.do(http.MethodGet, "/items?from=0&size=5", owner.ID, nil), http.StatusOK, &own)
	assert.Len(t, own, 1)

	api.decode(api.do(http.MethodGet, "/items/999", owner.ID, nil), http.StatusNotFound, nil)
}

func TestBookingFlow(t *testing.T) {
	api := newTestAPI(t)
	owner := api.createUser("Owner", "owner@example.com")
	booker := api.createUser("Booker", "booker@example.com")
	item := api.createItem(owner.ID, "Drill")

	var errBody errorResponse
	api.decode(api.do(http.MethodPost, "/bookings", owner.ID, map[string]any{
		"itemId": item.ID, "start": "2024-01-01T00:00:00", "end": "2024-01-02T00:00:00",
	}), http.StatusBadRequest, &errBody)

	api.decode(api.do(http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": "2024-01-02T00:00:00", "end": "2024-01-01T00:00:00",
	}), http.StatusBadRequest, nil)

	var booking models.BookingView
	api.decode(api.do(http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": "2024-01-01T00:00:00", "end": "2024-01-02T00:00:00Z",
	}), http.StatusOK, &booking)
	assert.Equal(t, models.StatusWaiting, booking.Status)
	assert.Equal(t, booker.ID, booking.Booker.ID)
	assert.Equal(t, item.ID, booking.Item.ID)

	path := fmt.Sprintf("/bookings/%d", booking.ID)
	api.decode(api.do(http.MethodPatch, path+"?approved=true", booker.ID, nil), http.StatusForbidden, nil)
	api.decode(api.do(http.MethodPatch, path+"?approved=maybe", owner.ID, nil), http.StatusBadRequest, nil)

	var approved models.BookingView
	api.decode(api.do(http.MethodPatch, path+"?approved=true", owner.ID, nil), http.StatusOK, &approved)
	assert.Equal(t, models.StatusApproved, approved.Status)
	api.decode(api.do(http.MethodPatch, path+"?approved=false", owner.ID, nil), http.StatusConflict, nil)
	api.decode(api.do(http.MethodPatch, path+"/cancel", booker.ID, nil), http.StatusConflict, nil)

	stranger := api.createUser("Stranger", "stranger@example.com")
	api.decode(api.do(http.MethodGet, path, stranger.ID, nil), http.StatusNotFound, nil)
	api.decode(api.do(http.MethodGet, path, owner.ID, nil), http.StatusOK, nil)

	var list []models.BookingView
	api.decode(api.do(http.MethodGet, "/bookings?state=PAST", booker.ID, nil), http.StatusOK, &list)
	assert.Len(t, list, 1)
	api.decode(api.do(http.MethodGet, "/bookings?state=future", booker.ID, nil), http.StatusOK, &list)
	assert.Empty(t, list)
	api.decode(api.do(http.MethodGet, "/bookings/owner", owner.ID, nil), http.StatusOK, &list)
	assert.Len(t, list, 1)

	api.decode(api.do(http.MethodGet, "/bookings?state=SOON", booker.ID, nil), http.StatusBadRequest, &errBody)
	assert.Equal(t, "Unknown state: SOON", errBody.Error)

	var comment models.CommentView
	api.decode(api.do(http.MethodPost, fmt.Sprintf("/items/%d/comment", item.ID), stranger.ID, map[string]string{"text": "Nice"}), http.StatusConflict, nil)
	api.decode(api.do(http.MethodPost, fmt.Sprintf("/items/%d/comment", item.ID), booker.ID, map[string]string{"text": "Nice"}), http.StatusOK, &comment)
	assert.Equal(t, "Booker", comment.AuthorName)

	var view models.ItemView
	api.decode(api.do(http.MethodGet, fmt.Sprintf("/items/%d", item.ID), owner.ID, nil), http.StatusOK, &view)
	require.NotNil(t, view.LastBooking)
	assert.Equal(t, booking.ID, view.LastBooking.ID)
	assert.Len(t, view.Comments, 1)
}

func TestBookingOverlapAndCancel(t *testing.T) {
	api := newTestAPI(t)
	owner := api.createUser("Owner", "owner@example.com")
	booker := api.createUser("Booker", "booker@example.com")
	item := api.createItem(owner.ID, "Tent")

	var first, second models.BookingView
	api.decode(api.do(http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": "2024-03-01T10:00:00", "end": "2024-03-03T10:00:00",
	}), http.StatusOK, &first)
	api.decode(api.do(http.MethodPatch, fmt.Sprintf("/bookings/%d?approved=true", first.ID), owner.ID, nil), http.StatusOK, nil)

	api.decode(api.do(http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": "2024-03-02T10:00:00", "end": "2024-03-04T10:00:00",
	}), http.StatusConflict, nil)

	api.decode(api.do(http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": "2024-03-05T10:00:00", "end": "2024-03-06T10:00:00",
	}), http.StatusOK, &second)

	api.decode(api.do(http.MethodPatch, fmt.Sprintf("/bookings/%d/cancel", second.ID), owner.ID, nil), http.StatusForbidden, nil)

	var canceled models.BookingView
	api.decode(api.do(http.MethodPatch, fmt.Sprintf("/bookings/%d/cancel", second.ID), booker.ID, nil), http.StatusOK, &canceled)
	assert.Equal(t, models.StatusCanceled, canceled.Status)

	api.decode(api.do(http.MethodPost, "/bookings", booker.ID, map[string]any{
		"itemId": item.ID, "start": "not a date", "end": "2024-03-06T10:00:00",
	}), http.StatusBadRequest, nil)
}

func TestExportOwnerBookings(t *testing.T) {
	api := newTestAPI(t)
	owner := api.createUser("Owner", "owner@example.com")
	booker := api.createUser("Booker", "booker@example.com")
	item := api.createItem(owner.ID, "Kayak")

	for _, day := range []string{"05", "10"} {
		api.decode(api.do(http.MethodPost, "/bookings", booker.ID, map[string]any{
			"itemId": item.ID, "start": "2024-04-" + day + "T09:00:00", "end": "2024-04-" + day + "T18:00:00",
		}), http.StatusOK, nil)
	}

	resp := api.do(http.MethodGet, "/bookings/owner/export?state=WAITING", owner.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "bookings_")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	api.decode(api.do(http.MethodGet, "/bookings/owner/export?state=BAD", owner.ID, nil), http.StatusBadRequest, nil)
}

func TestRequestsEndpoints(t *testing.T) {
	api := newTestAPI(t)
	asker := api.createUser("Asker", "asker@example.com")
	helper := api.createUser("Helper", "helper@example.com")

	api.decode(api.do(http.MethodPost, "/requests", asker.ID, map[string]string{"description": " "}), http.StatusBadRequest, nil)

	var request models.RequestView
	api.decode(api.do(http.MethodPost, "/requests", asker.ID, map[string]string{"description": "Need a ladder"}), http.StatusOK, &request)
	assert.NotZero(t, request.ID)

	var item models.ItemView
	api.decode(api.do(http.MethodPost, "/items", helper.ID, map[string]any{
		"name": "Ladder", "description": "Tall", "available": true, "requestId": request.ID,
	}), http.StatusOK, &item)
	require.NotNil(t, item.RequestID)
	assert.Equal(t, request.ID, *item.RequestID)

	var own []models.RequestView
	api.decode(api.do(http.MethodGet, "/requests", asker.ID, nil), http.StatusOK, &own)
	require.Len(t, own, 1)
	assert.Len(t, own[0].Items, 1)

	var others []models.RequestView
	api.decode(api.do(http.MethodGet, "/requests/all?from=0&size=20", helper.ID, nil), http.StatusOK, &others)
	assert.Len(t, others, 1)

	api.decode(api.do(http.MethodGet, fmt.Sprintf("/requests/%d", request.ID), helper.ID, nil), http.StatusOK, nil)
	api.decode(api.do(http.MethodGet, "/requests/999", helper.ID, nil), http.StatusNotFound, nil)
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)
	var errBody errorResponse
	api.decode(api.do(http.MethodGet, "/nope", 0, nil), http.StatusNotFound, &errBody)
	assert.Equal(t, "not found", errBody.Description)
}
