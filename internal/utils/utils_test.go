package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"", 7 * time.Second},
		{"30", 30 * time.Second},
		{"500ms", 500 * time.Millisecond},
		{"2m", 2 * time.Minute},
		{"1h", time.Hour},
		{"1m30s", 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run("Duration: "+tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input, 7*time.Second)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseDuration("soon", 0)
	assert.Error(t, err)
}

func TestGetenv(t *testing.T) {
	t.Setenv("POSTBOARD_TEST_VAR", "  value ")
	assert.Equal(t, "value", Getenv("POSTBOARD_TEST_VAR", "def"))

	t.Setenv("POSTBOARD_TEST_VAR", "")
	assert.Equal(t, "def", Getenv("POSTBOARD_TEST_VAR", "def"))
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
	ctx := context.WithValue(context.Background(), CtxRequestIDKey, "abc")
	assert.Equal(t, "abc", RequestID(ctx))
}

func TestDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	Detail(rr, http.StatusNotFound, "Not found.")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail":"Not found."}`, rr.Body.String())
}

func TestJSONUnencodableValue(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusCreated, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"detail":"response could not be encoded"}`, rr.Body.String())
}

func TestJSONNilBody(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Title string `json:"title"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x"}`))
	rr := httptest.NewRecorder()
	require.NoError(t, DecodeJSON(rr, req, &body))
	assert.Equal(t, "x", body.Title)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x","id":4}`))
	rr = httptest.NewRecorder()
	assert.Error(t, DecodeJSON(rr, req, &body))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp["detail"], "unknown field")

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	rr = httptest.NewRecorder()
	assert.Error(t, DecodeJSON(rr, req, &body))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
