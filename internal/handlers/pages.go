package handlers

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/vaughan-dsouza/postboard/internal/utils"
	"github.com/vaughan-dsouza/postboard/internal/views"
)

const (
	pageTitle = "Posts"

	// maxFormBody caps a submitted form.
	maxFormBody = 1 << 20

	// listWait bounds how long a render waits for the list fetch.
	// The client's own timeout usually fires first.
	listWait = 35 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type PageHandler struct {
	API views.PostsAPI
	log *slog.Logger
}

func NewPageHandler(api views.PostsAPI, logger *slog.Logger) *PageHandler {
	return &PageHandler{API: api, log: logger}
}

type pageData struct {
	Title string
	Lang  string
	Form  views.FormView
	List  listData
}

type listData struct {
	Key  int
	View views.ListView
}

func (h *PageHandler) newPage(r *http.Request) *views.Page {
	return views.NewPage(views.PageConfig{
		API:    h.API,
		Dates:  views.DateFormatFor(r.Header.Get("Accept-Language")),
		Logger: h.log.With("request_id", utils.RequestID(r.Context())),
	})
}

// ---------------------- HOME ----------------------

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(r)
	page.Mount(r.Context())
	defer page.Unmount()

	h.render(w, r, page)
}

// ---------------------- CREATE ----------------------

// CreatePost handles the form. Blank input and API failures re-render the
// page with the fields as typed and no message.
func (h *PageHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	page := h.newPage(r)
	form := page.Form()
	form.SetTitle(r.PostForm.Get("title"))
	form.SetContent(r.PostForm.Get("content"))

	// A successful submit bumps the key before the page is mounted, so only
	// the refreshed list fetches.
	res := form.Submit(r.Context())
	h.log.Debug("post form submitted", "result", res.String(), "list_key", page.Key())

	page.Mount(r.Context())
	defer page.Unmount()

	h.render(w, r, page)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, page *views.Page) {
	ctx, cancel := context.WithTimeout(r.Context(), listWait)
	defer cancel()

	list := page.List()
	if err := list.Wait(ctx); err != nil {
		h.log.Warn("rendering before posts fetch settled", "err", err)
	}

	data := pageData{
		Title: pageTitle,
		Lang:  page.Dates().Tag().String(),
		Form:  page.Form().Snapshot(),
		List: listData{
			Key:  page.Key(),
			View: list.Snapshot(),
		},
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.log.Error("render page", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
