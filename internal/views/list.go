package views

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vaughan-dsouza/postboard/internal/models"
)

// ListState is the state a PostList renders. Exactly one applies at a time.
type ListState int

const (
	ListLoading ListState = iota
	ListError
	ListEmpty
	ListPopulated
)

func (s ListState) String() string {
	switch s {
	case ListLoading:
		return "loading"
	case ListError:
		return "error"
	case ListEmpty:
		return "empty"
	case ListPopulated:
		return "populated"
	default:
		return "unknown"
	}
}

const (
	// FetchErrorMessage is all the viewer sees when a fetch fails.
	FetchErrorMessage = "Failed to fetch posts"
	// EmptyMessage is shown when the API returns no posts.
	EmptyMessage = "No posts found."
)

// PostItem is one rendered entry.
type PostItem struct {
	ID      int64
	Title   string
	Content string
	Created string
}

// ListView is a snapshot of a PostList.
type ListView struct {
	State   ListState
	Message string
	Posts   []PostItem
}

// ListConfig configures a PostList.
type ListConfig struct {
	API PostLister

	// Dates formats each post's creation date. Zero value is en-US.
	Dates DateFormat

	// Logger for fetch failures. Falls back to slog.Default() if nil.
	Logger *slog.Logger
}

// PostList fetches all posts when mounted.
//
// Each Mount starts a new generation. A response is applied only while the
// list is mounted and its generation is still the latest, so responses that
// arrive after Unmount or a newer Mount are dropped.
type PostList struct {
	api   PostLister
	dates DateFormat
	log   *slog.Logger

	mu      sync.Mutex
	gen     uint64
	mounted bool
	cancel  context.CancelFunc
	done    chan struct{}
	state   ListState
	posts   []models.Post
}

// NewPostList returns an unmounted list in the loading state.
func NewPostList(cfg ListConfig) *PostList {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PostList{
		api:   cfg.API,
		dates: cfg.Dates,
		log:   logger,
		state: ListLoading,
	}
}

// Mount switches to loading and fetches the posts in the background.
// Mounting an already mounted list abandons its pending fetch.
func (l *PostList) Mount(ctx context.Context) {
	fetchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	l.mounted = true
	l.cancel = cancel
	l.done = done
	l.state = ListLoading
	l.posts = nil
	l.mu.Unlock()

	go l.fetch(fetchCtx, gen, done)
}

func (l *PostList) fetch(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	resp, err := l.api.ListPosts(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.mounted || gen != l.gen {
		l.log.Debug("discarding stale posts response", "generation", gen, "current", l.gen)
		return
	}

	if err != nil {
		l.log.Error("failed to fetch posts", "err", err)
		l.state = ListError
		return
	}

	l.posts = resp.Data
	if len(l.posts) == 0 {
		l.state = ListEmpty
	} else {
		l.state = ListPopulated
	}
}

// Unmount tears the list down. A fetch still in flight is cancelled and its
// result ignored.
func (l *PostList) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.mounted = false
	l.gen++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Mounted reports whether the list is mounted.
func (l *PostList) Mounted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted
}

// Wait blocks until the latest fetch has settled or ctx is done.
func (l *PostList) Wait(ctx context.Context) error {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns what the list currently shows.
func (l *PostList) Snapshot() ListView {
	l.mu.Lock()
	defer l.mu.Unlock()

	v := ListView{State: l.state}
	switch l.state {
	case ListError:
		v.Message = FetchErrorMessage
	case ListEmpty:
		v.Message = EmptyMessage
	case ListPopulated:
		v.Posts = make([]PostItem, len(l.posts))
		for i, p := range l.posts {
			v.Posts[i] = PostItem{
				ID:      p.ID,
				Title:   p.Title,
				Content: p.Content,
				Created: l.dates.Format(p.CreatedAt),
			}
		}
	}
	return v
}
