// Package blog relays requests to the Velog GraphQL API and pages
// through a user's posts.
package blog

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const (
	// Endpoint is the fixed upstream GraphQL URL.
	Endpoint = "https://v2.velog.io/graphql"

	defaultLimit   = 10
	maxResponse    = 5 << 20 // 5MB
	defaultTimeout = 10 * time.Second
)

const postsQuery = `query Posts($cursor: ID, $username: String, $temp_only: Boolean, $tag: String, $limit: Int) {
  posts(cursor: $cursor, username: $username, temp_only: $temp_only, tag: $tag, limit: $limit) {
    id
    title
    short_description
    thumbnail
    user {
      id
      username
      profile {
        id
        thumbnail
      }
    }
    url_slug
    released_at
    updated_at
    comments_count
    tags
    is_private
    likes
  }
}`

var (
	// ErrMalformed is returned when the upstream body is not the JSON we expect.
	ErrMalformed = errors.New("blog: malformed upstream response")
	// ErrEmpty is returned when the upstream body is null or otherwise falsy.
	ErrEmpty = errors.New("blog: empty upstream response")
)

// StatusError reports a non-2xx upstream status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("blog: upstream returned status %d", e.Code)
}

// Cache stores successful upstream payloads keyed by request digest.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, body []byte)
}

// Response is an upstream reply relayed as-is.
type Response struct {
	Status int
	Body   []byte
	Cached bool
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client talks to the Velog GraphQL endpoint.
type Client struct {
	endpoint string
	username string
	limit    int
	http     *http.Client
	cache    Cache
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the upstream URL (used by tests).
func WithEndpoint(u string) Option {
	return func(c *Client) { c.endpoint = u }
}

// WithHTTPClient sets the HTTP client used for upstream calls.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCache enables response caching.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithPageSize sets the number of posts requested per page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

// NewClient creates a Client reading posts of the given Velog user.
func NewClient(username string, opts ...Option) *Client {
	c := &Client{
		endpoint: Endpoint,
		username: username,
		limit:    defaultLimit,
		http:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Username returns the Velog user whose posts are listed.
func (c *Client) Username() string {
	return c.username
}

// CacheKey is the digest used to cache the reply to body. Whitespace
// outside JSON strings does not change the key.
func CacheKey(body []byte) string {
	sum := sha256.Sum256(pretty.Ugly(body))
	return hex.EncodeToString(sum[:])
}

// Forward POSTs body verbatim to the upstream endpoint and returns its
// status and payload unchanged. Valid 2xx payloads are cached.
func (c *Client) Forward(ctx context.Context, body []byte) (*Response, error) {
	key := CacheKey(body)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return &Response{Status: http.StatusOK, Body: cached, Cached: true}, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("blog: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("blog: upstream request: %w", err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, maxResponse))
	if err != nil {
		return nil, fmt.Errorf("blog: read upstream body: %w", err)
	}

	out := &Response{Status: res.StatusCode, Body: payload}
	if c.cache != nil && out.OK() && Validate(payload) == nil {
		c.cache.Put(key, payload)
	}
	return out, nil
}

// Validate checks that body is JSON and not a falsy value.
func Validate(body []byte) error {
	if !gjson.ValidBytes(body) {
		return ErrMalformed
	}
	r := gjson.ParseBytes(body)
	switch r.Type {
	case gjson.Null, gjson.False:
		return ErrEmpty
	case gjson.String:
		if r.Str == "" {
			return ErrEmpty
		}
	case gjson.Number:
		if r.Num == 0 {
			return ErrEmpty
		}
	}
	return nil
}

// PostsRequest builds the GraphQL body for one page of posts.
func (c *Client) PostsRequest(cursor string) ([]byte, error) {
	body := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err != nil {
			return
		}
		body, err = sjson.SetBytes(body, path, v)
	}
	set("operationName", "Posts")
	set("variables.username", c.username)
	set("variables.cursor", cursor)
	set("variables.limit", c.limit)
	set("query", postsQuery)
	if err != nil {
		return nil, fmt.Errorf("blog: build posts request: %w", err)
	}
	return body, nil
}

// Posts fetches the page of posts that follows cursor. An empty cursor
// fetches the first page.
func (c *Client) Posts(ctx context.Context, cursor string) ([]Post, error) {
	body, err := c.PostsRequest(cursor)
	if err != nil {
		return nil, err
	}
	res, err := c.Forward(ctx, body)
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, &StatusError{Code: res.Status}
	}
	return DecodePosts(res.Body)
}

// DecodePosts extracts data.posts from a Posts query reply.
func DecodePosts(body []byte) ([]Post, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	list := gjson.GetBytes(body, "data.posts")
	if !list.IsArray() {
		return nil, ErrMalformed
	}
	posts := []Post{}
	if err := json.Unmarshal([]byte(list.Raw), &posts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return posts, nil
}
