package blog

import (
	"net/url"
	"time"
)

// Profile is the author's avatar block as returned by Velog.
type Profile struct {
	ID        string `json:"id"`
	Thumbnail string `json:"thumbnail"`
}

// User is the author of a post.
type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Profile  Profile `json:"profile"`
}

// Post mirrors the fields selected by the Posts query.
type Post struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	ShortDescription string   `json:"short_description"`
	Thumbnail        string   `json:"thumbnail"`
	User             User     `json:"user"`
	URLSlug          string   `json:"url_slug"`
	ReleasedAt       string   `json:"released_at"`
	UpdatedAt        string   `json:"updated_at"`
	CommentsCount    int      `json:"comments_count"`
	Tags             []string `json:"tags"`
	IsPrivate        bool     `json:"is_private"`
	Likes            int      `json:"likes"`
}

// URL is the post's page on Velog.
func (p Post) URL() string {
	return "https://velog.io/@" + url.PathEscape(p.User.Username) + "/" + url.PathEscape(p.URLSlug)
}

// Released parses ReleasedAt. The zero time is returned when it is unset
// or malformed.
func (p Post) Released() time.Time {
	t, err := time.Parse(time.RFC3339, p.ReleasedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// NextCursor returns the id of the last post, which Velog takes as the
// cursor for the following page. An empty page has no next cursor.
func NextCursor(posts []Post) string {
	if len(posts) == 0 {
		return ""
	}
	return posts[len(posts)-1].ID
}
