// Package views holds the state behind the posts page: a list that fetches
// every post when mounted, a form that creates posts, and the page that
// composes them.
//
// Views are renderer-agnostic. They expose immutable snapshots that the web
// handlers turn into HTML.
package views

import (
	"context"

	"github.com/vaughan-dsouza/postboard/internal/models"
	"github.com/vaughan-dsouza/postboard/internal/postsapi"
)

// PostLister is the part of the API client the list needs.
type PostLister interface {
	ListPosts(ctx context.Context) (*postsapi.Response[[]models.Post], error)
}

// PostCreator is the part of the API client the form needs.
type PostCreator interface {
	CreatePost(ctx context.Context, in models.PostInput) (*postsapi.Response[models.Post], error)
}

// PostsAPI is what a page needs.
type PostsAPI interface {
	PostLister
	PostCreator
}

var _ PostsAPI = (*postsapi.Client)(nil)
