// Package postsapitest provides an in-memory posts REST service for tests.
package postsapitest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vaughan-dsouza/postboard/internal/models"
	"github.com/vaughan-dsouza/postboard/internal/utils"
)

// Request is a request as received by the server.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

type failure struct {
	status      int
	contentType string
	body        string
}

// Server mimics the REST contract: /api/posts/ and /api/posts/{id}/.
// Posts are listed newest first.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	posts    []models.Post
	nextID   int64
	now      func() time.Time
	failures map[string][]failure
	gates    map[string]chan struct{}
	requests []Request
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	s := &Server{
		nextID:   1,
		now:      func() time.Time { return time.Now().UTC() },
		failures: make(map[string][]failure),
		gates:    make(map[string]chan struct{}),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the address a client should be configured with.
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Get("/api/posts/", s.getPosts)
	r.Post("/api/posts/", s.createPost)
	r.Get("/api/posts/{id}/", s.getPostByID)
	r.Put("/api/posts/{id}/", s.updatePost)
	r.Delete("/api/posts/{id}/", s.deletePost)
	return r
}

// Seed stores posts as given. Ids above the current counter advance it.
func (s *Server) Seed(posts ...models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range posts {
		s.posts = append(s.posts, p)
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
}

// Posts returns the stored posts.
func (s *Server) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Post(nil), s.posts...)
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// CountRequests counts received requests with the given method.
func (s *Server) CountRequests(method string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

// Fail makes the next request with method answer with status and a raw body.
// Queued failures are consumed in order.
func (s *Server) Fail(method string, status int, contentType, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = append(s.failures[method], failure{status: status, contentType: contentType, body: body})
}

// Hold blocks requests with method until the returned release func is called.
func (s *Server) Hold(method string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gates[method] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.gates[method] == ch {
				delete(s.gates, method)
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		gate := s.gates[r.Method]
		var f *failure
		if q := s.failures[r.Method]; len(q) > 0 {
			f = &q[0]
			s.failures[r.Method] = q[1:]
		}
		s.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}

		if f != nil {
			if f.contentType != "" {
				w.Header().Set("Content-Type", f.contentType)
			}
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---------------------- CREATE ----------------------

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var body models.PostInput
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}
	if fields := blankFields(body); fields != nil {
		utils.JSON(w, http.StatusBadRequest, fields)
		return
	}

	s.mu.Lock()
	now := s.now()
	post := models.Post{
		ID:        s.nextID,
		Title:     body.Title,
		Content:   body.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++
	s.posts = append([]models.Post{post}, s.posts...)
	s.mu.Unlock()

	utils.JSON(w, http.StatusCreated, post)
}

// ---------------------- GET ONE ----------------------

func (s *Server) getPostByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	s.mu.Lock()
	i := s.indexLocked(id)
	var post models.Post
	if i >= 0 {
		post = s.posts[i]
	}
	s.mu.Unlock()

	if i < 0 {
		utils.Detail(w, http.StatusNotFound, "Not found.")
		return
	}
	utils.JSON(w, http.StatusOK, post)
}

// ---------------------- LIST ----------------------

func (s *Server) getPosts(w http.ResponseWriter, r *http.Request) {
	posts := s.Posts()
	if posts == nil {
		posts = []models.Post{}
	}
	utils.JSON(w, http.StatusOK, posts)
}

// ---------------------- UPDATE ----------------------

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	var body models.PostInput
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		utils.Detail(w, http.StatusNotFound, "Not found.")
		return
	}
	if fields := blankFields(body); fields != nil {
		s.mu.Unlock()
		utils.JSON(w, http.StatusBadRequest, fields)
		return
	}
	s.posts[i].Title = body.Title
	s.posts[i].Content = body.Content
	s.posts[i].UpdatedAt = s.now()
	post := s.posts[i]
	s.mu.Unlock()

	utils.JSON(w, http.StatusOK, post)
}

// ---------------------- DELETE ----------------------

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	s.mu.Lock()
	i := s.indexLocked(id)
	if i >= 0 {
		s.posts = append(s.posts[:i], s.posts[i+1:]...)
	}
	s.mu.Unlock()

	if i < 0 {
		utils.Detail(w, http.StatusNotFound, "Not found.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) indexLocked(id int64) int {
	for i, p := range s.posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func blankFields(in models.PostInput) map[string][]string {
	fields := map[string][]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = []string{"This field may not be blank."}
	}
	if strings.TrimSpace(in.Content) == "" {
		fields["content"] = []string{"This field may not be blank."}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
