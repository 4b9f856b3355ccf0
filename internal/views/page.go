package views

import (
	"context"
	"log/slog"
	"sync"
)

// PageConfig configures a Page.
type PageConfig struct {
	API    PostsAPI
	Dates  DateFormat
	Logger *slog.Logger
}

// Page composes a PostForm and a PostList.
//
// The list is keyed by a counter the form bumps on every created post. A key
// change tears the current list down and mounts a fresh one, which fetches
// the whole collection again.
type Page struct {
	cfg  PageConfig
	form *PostForm

	mu      sync.Mutex
	ctx     context.Context
	mounted bool
	key     int
	list    *PostList
}

func NewPage(cfg PageConfig) *Page {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Dates.layout == "" {
		cfg.Dates = DefaultDateFormat()
	}
	p := &Page{cfg: cfg}
	p.form = NewPostForm(FormConfig{
		API:       cfg.API,
		OnCreated: p.OnPostCreated,
		Logger:    cfg.Logger,
	})
	p.list = p.newList()
	return p
}

func (p *Page) newList() *PostList {
	return NewPostList(ListConfig{
		API:    p.cfg.API,
		Dates:  p.cfg.Dates,
		Logger: p.cfg.Logger.With("list_key", p.key),
	})
}

// Mount mounts the current list. ctx bounds every fetch the page starts.
func (p *Page) Mount(ctx context.Context) {
	p.mu.Lock()
	p.ctx = ctx
	p.mounted = true
	list := p.list
	p.mu.Unlock()

	list.Mount(ctx)
}

// Unmount tears the current list down.
func (p *Page) Unmount() {
	p.mu.Lock()
	p.mounted = false
	list := p.list
	p.mu.Unlock()

	list.Unmount()
}

// OnPostCreated bumps the list key, replacing the list with a new instance.
func (p *Page) OnPostCreated() {
	p.mu.Lock()
	p.key++
	old := p.list
	p.list = p.newList()
	next := p.list
	ctx, mounted := p.ctx, p.mounted
	p.mu.Unlock()

	old.Unmount()
	if mounted {
		next.Mount(ctx)
	}
}

// Key is the current refresh key.
func (p *Page) Key() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.key
}

// Dates is the viewer's date format.
func (p *Page) Dates() DateFormat {
	return p.cfg.Dates
}

func (p *Page) Form() *PostForm {
	return p.form
}

// List returns the list instance for the current key.
func (p *Page) List() *PostList {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.list
}
