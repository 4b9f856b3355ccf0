package postsapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies a failed call.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindServer
	KindValidation
	KindNotFound
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindServer:
		return "server error"
	case KindValidation:
		return "validation error"
	case KindNotFound:
		return "not found"
	case KindMalformed:
		return "malformed response"
	default:
		return "unknown error"
	}
}

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrNetwork    = errors.New("network error")
	ErrServer     = errors.New("server error")
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrMalformed  = errors.New("malformed response")
)

// Error is returned by every Client operation.
type Error struct {
	Kind   Kind
	Op     string
	Status int
	Msg    string
	// Fields holds per-field messages sent with a 400.
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(": ")
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(formatFields(e.Fields))
	} else if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrServer:
		return e.Kind == KindServer
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrMalformed:
		return e.Kind == KindMalformed
	}
	return false
}

// errorFromResponse classifies a non-2xx response. body is whatever could be
// read from it.
func errorFromResponse(op string, resp *http.Response, body []byte) *Error {
	apiErr := &Error{
		Kind:   KindServer,
		Op:     op,
		Status: resp.StatusCode,
		Msg:    strings.TrimSpace(string(body)),
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		apiErr.Kind = KindNotFound
	case http.StatusBadRequest:
		apiErr.Kind = KindValidation
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return apiErr
	}

	// {"detail": "..."}, {"error": "..."} or {"title": ["This field may not be blank."]}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiErr
	}
	for _, key := range []string{"detail", "error"} {
		if v, ok := raw[key]; ok {
			var s string
			if json.Unmarshal(v, &s) == nil {
				apiErr.Msg = s
				delete(raw, key)
			}
		}
	}
	if apiErr.Kind == KindValidation && len(raw) > 0 {
		apiErr.Fields = make(map[string][]string, len(raw))
		for field, v := range raw {
			var msgs []string
			if json.Unmarshal(v, &msgs) != nil {
				var s string
				if json.Unmarshal(v, &s) != nil {
					continue
				}
				msgs = []string{s}
			}
			apiErr.Fields[field] = msgs
		}
		if len(apiErr.Fields) == 0 {
			apiErr.Fields = nil
		}
	}
	return apiErr
}

func isJSON(contentType string) bool {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(mt) == "application/json"
}

func formatFields(fields map[string][]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+strings.Join(fields[name], " "))
	}
	return strings.Join(parts, "; ")
}
