package views

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/vaughan-dsouza/postboard/internal/models"
	"github.com/vaughan-dsouza/postboard/internal/postsapi"
)

type listReply struct {
	posts []models.Post
	err   error
}

type listCall struct {
	ctx   context.Context
	reply chan listReply
}

func (c listCall) respond(posts ...models.Post) {
	if posts == nil {
		posts = []models.Post{}
	}
	c.reply <- listReply{posts: posts}
}

func (c listCall) fail(err error) {
	c.reply <- listReply{err: err}
}

// fakeAPI answers ListPosts only when the test replies to the call, so
// responses can be delivered after teardown.
type fakeAPI struct {
	listCalls chan listCall

	mu         sync.Mutex
	creates    []models.PostInput
	createErr  error
	createGate chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{listCalls: make(chan listCall, 16)}
}

func (f *fakeAPI) ListPosts(ctx context.Context) (*postsapi.Response[[]models.Post], error) {
	call := listCall{ctx: ctx, reply: make(chan listReply, 1)}
	f.listCalls <- call
	r := <-call.reply
	if r.err != nil {
		return nil, r.err
	}
	return &postsapi.Response[[]models.Post]{Status: 200, Data: r.posts}, nil
}

func (f *fakeAPI) CreatePost(ctx context.Context, in models.PostInput) (*postsapi.Response[models.Post], error) {
	f.mu.Lock()
	f.creates = append(f.creates, in)
	gate, err := f.createGate, f.createErr
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &postsapi.Response[models.Post]{
		Status: 201,
		Data:   models.Post{ID: 1, Title: in.Title, Content: in.Content, CreatedAt: day, UpdatedAt: day},
	}, nil
}

func (f *fakeAPI) createCalls() []models.PostInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.PostInput(nil), f.creates...)
}

func (f *fakeAPI) nextList(t *testing.T) listCall {
	t.Helper()
	select {
	case c := <-f.listCalls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for ListPosts")
		return listCall{}
	}
}

var day = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func samplePost() models.Post {
	return models.Post{ID: 1, Title: "A", Content: "B", CreatedAt: day, UpdatedAt: day}
}

func bufferLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}
