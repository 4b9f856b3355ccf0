package utils

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// JSON encodes data before touching w, so an unencodable value turns into
// a 500 instead of a truncated body behind the intended status.
func JSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if data != nil {
		if err := json.NewEncoder(&buf).Encode(data); err != nil {
			status = http.StatusInternalServerError
			buf.Reset()
			buf.WriteString(`{"detail":"response could not be encoded"}` + "\n")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// Detail writes a DRF-style {"detail": msg} body, the error shape the
// posts API uses for non-field errors.
func Detail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"detail": msg})
}

// DecodeJSON parses the JSON body into v, rejecting unknown fields.
// On failure a 400 has already been written.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		Detail(w, http.StatusBadRequest, "empty request body")
		return http.ErrBodyNotAllowed
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		Detail(w, http.StatusBadRequest, "JSON parse error - "+err.Error())
		return err
	}

	return nil
}
