package views

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vaughan-dsouza/postboard/internal/models"
)

// SubmitResult says what a Submit call did.
type SubmitResult int

const (
	// SubmitCreated: the post was created, fields were cleared and the
	// created callback ran.
	SubmitCreated SubmitResult = iota + 1
	// SubmitDropped: a field was blank; nothing was sent.
	SubmitDropped
	// SubmitBusy: another submit on this form is still in flight.
	SubmitBusy
	// SubmitFailed: the API call failed; the error was logged and the
	// fields kept.
	SubmitFailed
)

func (r SubmitResult) String() string {
	switch r {
	case SubmitCreated:
		return "created"
	case SubmitDropped:
		return "dropped"
	case SubmitBusy:
		return "busy"
	case SubmitFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FormConfig configures a PostForm.
type FormConfig struct {
	API PostCreator

	// OnCreated runs after a successful create. It carries no payload;
	// the owner is expected to re-fetch.
	OnCreated func()

	// Logger for create failures. Falls back to slog.Default() if nil.
	Logger *slog.Logger
}

// FormView is a snapshot of a PostForm.
type FormView struct {
	Title      string
	Content    string
	Submitting bool
}

// PostForm holds the title and content of a post being written.
type PostForm struct {
	api       PostCreator
	onCreated func()
	log       *slog.Logger

	mu         sync.Mutex
	title      string
	content    string
	submitting bool
}

// NewPostForm returns a form with both fields empty.
func NewPostForm(cfg FormConfig) *PostForm {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PostForm{
		api:       cfg.API,
		onCreated: cfg.OnCreated,
		log:       logger,
	}
}

func (f *PostForm) SetTitle(title string) {
	f.mu.Lock()
	f.title = title
	f.mu.Unlock()
}

func (f *PostForm) SetContent(content string) {
	f.mu.Lock()
	f.content = content
	f.mu.Unlock()
}

// Snapshot returns the current field values.
func (f *PostForm) Snapshot() FormView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FormView{Title: f.title, Content: f.content, Submitting: f.submitting}
}

// Submit creates a post from the current fields.
//
// Blank input is dropped silently and failures are only logged. At most one
// create is in flight per form; concurrent calls return SubmitBusy.
func (f *PostForm) Submit(ctx context.Context) SubmitResult {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return SubmitBusy
	}
	in := models.PostInput{Title: f.title, Content: f.content}
	if in.Blank() {
		f.mu.Unlock()
		return SubmitDropped
	}
	f.submitting = true
	f.mu.Unlock()

	_, err := f.api.CreatePost(ctx, in)

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.mu.Unlock()
		f.log.Error("failed to create post", "err", err)
		return SubmitFailed
	}
	f.title = ""
	f.content = ""
	f.mu.Unlock()

	if f.onCreated != nil {
		f.onCreated()
	}
	return SubmitCreated
}
