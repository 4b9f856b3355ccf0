package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/postboard/internal/models"
	"github.com/vaughan-dsouza/postboard/internal/postsapi"
	"github.com/vaughan-dsouza/postboard/internal/postsapi/postsapitest"
	"github.com/vaughan-dsouza/postboard/internal/views"
)

var day = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) (*postsapitest.Server, http.Handler, *bytes.Buffer) {
	t.Helper()
	srv := postsapitest.NewServer(t)
	api, err := postsapi.New(srv.BaseURL(), postsapi.WithTimeout(2*time.Second))
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return srv, NewHandler(api, logger).Routes(), &logs
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func postForm(h http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHomeEmpty(t *testing.T) {
	_, h, _ := newTestHandler(t)

	rr := get(h, "/")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Contains(t, body, "Create New Post")
	assert.Contains(t, body, `data-state="empty"`)
	assert.Contains(t, body, views.EmptyMessage)
	assert.NotContains(t, body, "data-post-id")
}

func TestHomePopulated(t *testing.T) {
	srv, h, _ := newTestHandler(t)
	srv.Seed(models.Post{ID: 1, Title: "A", Content: "B", CreatedAt: day, UpdatedAt: day})

	rr := get(h, "/")

	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, body, `data-state="populated"`)
	assert.Equal(t, 1, strings.Count(body, "data-post-id"))
	assert.Contains(t, body, "<h3>A</h3>")
	assert.Contains(t, body, "<p>B</p>")
	assert.Contains(t, body, "Created: 1/1/2024")
}

func TestHomeLocaleDates(t *testing.T) {
	srv, h, _ := newTestHandler(t)
	srv.Seed(models.Post{ID: 1, Title: "A", Content: "B", CreatedAt: day, UpdatedAt: day})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Contains(t, rr.Body.String(), "Created: 01/01/2024")
	assert.Contains(t, rr.Body.String(), `<html lang="en-GB">`)
}

func TestHomeEscapesContent(t *testing.T) {
	srv, h, _ := newTestHandler(t)
	srv.Seed(models.Post{ID: 1, Title: "<script>alert(1)</script>", Content: "x", CreatedAt: day, UpdatedAt: day})

	body := get(h, "/").Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestHomeAPIError(t *testing.T) {
	srv, h, logs := newTestHandler(t)
	srv.Seed(models.Post{ID: 1, Title: "A", Content: "B", CreatedAt: day, UpdatedAt: day})
	srv.Fail(http.MethodGet, http.StatusInternalServerError, "text/plain", "database on fire")

	rr := get(h, "/")

	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, body, `data-state="error"`)
	assert.Contains(t, body, views.FetchErrorMessage)
	assert.NotContains(t, body, "database on fire")
	assert.NotContains(t, body, "data-post-id")
	assert.Contains(t, logs.String(), "database on fire")
}

func TestCreatePostRefreshesList(t *testing.T) {
	srv, h, _ := newTestHandler(t)

	rr := postForm(h, url.Values{"title": {"Hello"}, "content": {"World"}})

	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, body, `data-refresh-key="1"`)
	assert.Contains(t, body, "<h3>Hello</h3>")
	assert.Contains(t, body, `name="title" value=""`)

	posts := srv.Posts()
	require.Len(t, posts, 1)
	assert.Equal(t, "Hello", posts[0].Title)
	assert.Equal(t, "World", posts[0].Content)
	assert.Equal(t, 1, srv.CountRequests(http.MethodPost))
	assert.Equal(t, 1, srv.CountRequests(http.MethodGet))
}

func TestCreatePostBlankDropped(t *testing.T) {
	srv, h, _ := newTestHandler(t)

	rr := postForm(h, url.Values{"title": {"kept"}, "content": {"   "}})

	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, body, `data-refresh-key="0"`)
	assert.Contains(t, body, `name="title" value="kept"`)
	assert.Equal(t, 0, srv.CountRequests(http.MethodPost))
}

func TestCreatePostFailureIsSilent(t *testing.T) {
	srv, h, logs := newTestHandler(t)
	srv.Fail(http.MethodPost, http.StatusInternalServerError, "application/json", `{"error":"nope"}`)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{"title": {"t"}, "content": {"c"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Request-Id", "rid-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	body := rr.Body.String()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, body, `data-refresh-key="0"`)
	assert.Contains(t, body, `name="title" value="t"`)
	assert.Contains(t, body, ">c</textarea>")
	assert.NotContains(t, body, "nope")
	assert.Empty(t, srv.Posts())

	var failure string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, "failed to create post") {
			failure = line
		}
	}
	assert.Contains(t, failure, "request_id=rid-42")
}

func TestFetchFailureLogsRequestID(t *testing.T) {
	srv, h, logs := newTestHandler(t)
	srv.Fail(http.MethodGet, http.StatusInternalServerError, "text/plain", "boom")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "rid-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var failure string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, "failed to fetch posts") {
			failure = line
		}
	}
	assert.Contains(t, failure, "request_id=rid-7")
}

func TestSubmitButtonDisablesOnSubmit(t *testing.T) {
	_, h, _ := newTestHandler(t)

	body := get(h, "/").Body.String()
	assert.Contains(t, body, `onsubmit="this.querySelector('button[type=submit]').disabled = true"`)
	assert.Contains(t, body, ">Create Post</button>")
}

func TestRequestIDForwardedToAPI(t *testing.T) {
	srv, h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "frontend-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "frontend-1", reqs[0].Header.Get(postsapi.RequestIDHeader))
	assert.Equal(t, "frontend-1", rr.Header().Get("X-Request-Id"))
}

func TestHealth(t *testing.T) {
	_, h, _ := newTestHandler(t)

	rr := get(h, "/healthz")

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}
