package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidPost is returned when a payload does not match the Post schema.
var ErrInvalidPost = errors.New("invalid post payload")

// Post is owned by the REST service. ID, CreatedAt and UpdatedAt are
// assigned there and never sent back by the client.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostInput is the body of create and update calls.
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Blank reports whether either field is empty once whitespace is trimmed.
func (in PostInput) Blank() bool {
	return strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == ""
}

type postWire struct {
	ID        *int64  `json:"id"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

// UnmarshalJSON decodes a post and rejects payloads with missing fields,
// non-positive ids or unparseable timestamps.
func (p *Post) UnmarshalJSON(data []byte) error {
	var w postWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPost, err)
	}

	switch {
	case w.ID == nil:
		return missing("id")
	case w.Title == nil:
		return missing("title")
	case w.Content == nil:
		return missing("content")
	case w.CreatedAt == nil:
		return missing("created_at")
	case w.UpdatedAt == nil:
		return missing("updated_at")
	}

	if *w.ID <= 0 {
		return fmt.Errorf("%w: id must be positive, got %d", ErrInvalidPost, *w.ID)
	}

	created, err := ParseTimestamp(*w.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: created_at: %v", ErrInvalidPost, err)
	}
	updated, err := ParseTimestamp(*w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: updated_at: %v", ErrInvalidPost, err)
	}

	*p = Post{
		ID:        *w.ID,
		Title:     *w.Title,
		Content:   *w.Content,
		CreatedAt: created,
		UpdatedAt: updated,
	}
	return nil
}

// naiveLayout is ISO-8601 without a zone offset, as sent by servers that
// store local times. Such values are read as UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// ParseTimestamp parses an ISO-8601 timestamp as sent by the API.
// Fractional seconds and the zone offset are optional.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	if naive, nerr := time.ParseInLocation(naiveLayout, s, time.UTC); nerr == nil {
		return naive, nil
	}
	return time.Time{}, err
}

func missing(field string) error {
	return fmt.Errorf("%w: missing field %q", ErrInvalidPost, field)
}
