package views

import (
	"strings"

	"github.com/a-h/templ"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.3/dist/htmx.min.js"

// Client errors carry a result fragment, so htmx swaps them like 2xx.
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"4..","swap":true,"error":false},{"code":"...","swap":true,"error":true}]}`

// Layout wraps body in the document shell, header and footer.
func Layout(site Site, meta PageMeta, body templ.Component) templ.Component {
	return component(func(o *out) {
		title := site.Name
		if meta.Title != "" {
			title = meta.Title + " | " + site.Name
		}
		o.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8"/>`)
		o.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"/>`)
		o.raw(`<title>`)
		o.text(title)
		o.raw(`</title>`)
		if meta.Description != "" {
			o.raw(`<meta name="description"`)
			o.attr("content", meta.Description)
			o.raw(`/>`)
		}
		o.raw(`<link rel="stylesheet" href="/public/styles.css"/>`)
		o.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"/>`)
		o.raw(`<meta name="htmx-config" content='`, htmxConfig, `'/>`)
		o.raw(`<script src="`, htmxSrc, `" defer></script>`)
		o.raw(`</head><body>`)
		o.child(header(site, meta.Path))
		o.raw(`<main id="main">`)
		o.child(body)
		o.raw(`</main>`)
		o.child(footer(site))
		o.raw(`</body></html>`)
	})
}

func header(site Site, active string) templ.Component {
	return component(func(o *out) {
		o.raw(`<header class="site-header"><a class="logo" href="/">`)
		o.text(site.Name)
		o.raw(`</a><nav>`)
		for _, item := range navItems {
			o.raw(`<a`)
			o.href(item.Path)
			if isActive(item.Path, active) {
				o.raw(` class="active" aria-current="page"`)
			}
			o.raw(`>`)
			o.text(item.Label)
			o.raw(`</a>`)
		}
		o.raw(`</nav></header>`)
	})
}

func footer(site Site) templ.Component {
	return component(func(o *out) {
		o.raw(`<footer class="site-footer"><ul class="socials">`)
		for _, s := range site.Socials {
			o.raw(`<li><a`)
			o.href(s.URL)
			o.raw(` target="_blank" rel="noopener noreferrer">`)
			o.text(s.Name)
			o.raw(`</a></li>`)
		}
		o.raw(`</ul><p>&copy; `)
		o.text(site.Name)
		o.raw(`</p></footer>`)
	})
}

func isActive(item, current string) bool {
	if item == "/" {
		return current == "/"
	}
	return strings.HasPrefix(current, item)
}
