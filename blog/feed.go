package blog

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrInFlight is returned by Feed.Next while a previous fetch is running.
	ErrInFlight = errors.New("blog: fetch already in flight")
	// ErrDone is returned by Feed.Next once an empty page has been seen.
	ErrDone = errors.New("blog: no more posts")
)

// PageFetcher loads the page that follows cursor.
type PageFetcher interface {
	Posts(ctx context.Context, cursor string) ([]Post, error)
}

// Feed holds cursor pagination state over a PageFetcher.
type Feed struct {
	mu       sync.Mutex
	src      PageFetcher
	cursor   string
	done     bool
	inFlight bool
}

// NewFeed starts a feed at cursor ("" for the first page).
func NewFeed(src PageFetcher, cursor string) *Feed {
	return &Feed{src: src, cursor: cursor}
}

// Next fetches the following page and advances the cursor to its last
// post. A concurrent call while a fetch is running gets ErrInFlight.
func (f *Feed) Next(ctx context.Context) ([]Post, error) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return nil, ErrInFlight
	}
	if f.done {
		f.mu.Unlock()
		return nil, ErrDone
	}
	f.inFlight = true
	cursor := f.cursor
	f.mu.Unlock()

	posts, err := f.src.Posts(ctx, cursor)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight = false
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		f.done = true
		return posts, nil
	}
	f.cursor = NextCursor(posts)
	return posts, nil
}

// Cursor returns the cursor the next call will use.
func (f *Feed) Cursor() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor
}

// Done reports whether an empty page has been reached.
func (f *Feed) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}
