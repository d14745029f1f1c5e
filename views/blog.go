package views

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/kimkuns/portfolio/blog"
)

// Blog is the post feed page with its first page of posts.
func Blog(site Site, data BlogPage) templ.Component {
	body := component(func(o *out) {
		o.raw(`<section class="blog"><h1>Posts</h1>`)
		o.raw(`<p class="lead">Posts are loaded from Velog. Click a post to read it there.</p>`)
		o.raw(`<ul id="posts" class="post-list">`)
		o.child(BlogPosts(data))
		o.raw(`</ul></section>`)
	})
	return Layout(site, PageMeta{
		Title:       "Blog",
		Description: "Latest posts from Velog.",
		Path:        "/blog/",
	}, body)
}

// BlogPosts renders one page of posts followed by the scroll sentinel that
// fetches the next page when revealed. An empty page ends the feed.
func BlogPosts(data BlogPage) templ.Component {
	return component(func(o *out) {
		if data.Failed {
			o.raw(`<li class="feed-error"><p>Could not load posts.</p><p>Please try again shortly.</p>`)
			o.raw(`<button type="button" class="button"`)
			o.attr("hx-get", nextPageURL(data.NextCursor))
			o.raw(` hx-target="closest li" hx-swap="outerHTML">Retry</button></li>`)
			return
		}
		for _, p := range data.Posts {
			o.child(postItem(p))
		}
		if len(data.Posts) == 0 {
			o.raw(`<li class="feed-end">No more posts.</li>`)
			return
		}
		o.raw(`<li class="feed-sentinel" hx-trigger="revealed" hx-swap="outerHTML" hx-sync="this:drop"`)
		o.attr("hx-get", nextPageURL(blog.NextCursor(data.Posts)))
		o.raw(`>Loading...</li>`)
	})
}

func nextPageURL(cursor string) string {
	if cursor == "" {
		return "/blog/?cursor="
	}
	return "/blog/?cursor=" + url.QueryEscape(cursor)
}

func postItem(p blog.Post) templ.Component {
	return component(func(o *out) {
		o.raw(`<li class="post"><a target="_blank" rel="noopener noreferrer"`)
		o.href(p.URL())
		o.raw(`>`)
		if p.Thumbnail != "" {
			o.raw(`<img loading="lazy"`)
			o.attr("src", string(templ.URL(p.Thumbnail)))
			o.attr("alt", p.Title)
			o.raw(`/>`)
		}
		o.raw(`<h2>`)
		o.text(p.Title)
		o.raw(`</h2><p>`)
		o.text(p.ShortDescription)
		o.raw(`</p><ul class="tags">`)
		for _, tag := range p.Tags {
			o.raw(`<li>#`)
			o.text(tag)
			o.raw(`</li>`)
		}
		o.raw(`</ul><footer>`)
		if t := p.Released(); !t.IsZero() {
			o.raw(`<time`)
			o.attr("datetime", p.ReleasedAt)
			o.raw(`>`)
			o.text(t.Format("2006-01-02"))
			o.raw(`</time>`)
		}
		o.raw(`<span class="likes">`)
		o.text(strconv.Itoa(p.Likes))
		o.raw(` likes</span><span class="comments">`)
		o.text(strconv.Itoa(p.CommentsCount))
		o.raw(` comments</span></footer></a></li>`)
	})
}
