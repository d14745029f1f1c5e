package views

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/kimkuns/portfolio/markdown"
	"github.com/kimkuns/portfolio/projects"
)

// Projects is the searchable project gallery. When data.Modal is set the
// modal is rendered open on first paint.
func Projects(site Site, data ProjectsPage) templ.Component {
	body := component(func(o *out) {
		o.raw(`<section class="projects"><h1>Projects</h1>`)
		o.raw(`<form class="search" action="/projects/" method="get">`)
		o.raw(`<input type="search" name="q" placeholder="Search projects..." autocomplete="off"`)
		o.attr("value", data.Query)
		o.raw(` hx-get="/projects/" hx-trigger="input changed delay:300ms, search" hx-target="#project-list" hx-swap="outerHTML" hx-push-url="true"/>`)
		o.raw(`</form><ul class="stack-chips">`)
		for _, s := range data.Stacks {
			o.raw(`<li><a`)
			o.href("/projects/?q=" + url.QueryEscape(s))
			o.raw(` hx-target="#project-list" hx-swap="outerHTML"`)
			o.attr("hx-get", "/projects/?q="+url.QueryEscape(s))
			o.raw(`>`)
			o.text(s)
			o.raw(`</a></li>`)
		}
		o.raw(`</ul>`)
		o.child(ProjectList(data.Query, data.Results, data.Total))
		o.raw(`</section><div id="modal">`)
		if data.Modal != nil {
			o.child(ProjectModal(*data.Modal))
		}
		o.raw(`</div>`)
	})
	return Layout(site, PageMeta{
		Title:       "Projects",
		Description: "Things I have built.",
		Path:        "/projects/",
	}, body)
}

// ProjectList is the result grid, swapped in place while searching.
func ProjectList(query string, results []projects.Project, total int) templ.Component {
	return component(func(o *out) {
		o.raw(`<div id="project-list"><p class="count">`)
		o.text(strconv.Itoa(len(results)) + " of " + strconv.Itoa(total) + " projects")
		o.raw(`</p>`)
		if len(results) == 0 {
			o.raw(`<p class="empty">No projects match "`)
			o.text(query)
			o.raw(`".</p></div>`)
			return
		}
		o.raw(`<ul class="project-grid">`)
		for _, p := range results {
			o.child(projectCard(p))
		}
		o.raw(`</ul></div>`)
	})
}

func projectCard(p projects.Project) templ.Component {
	return component(func(o *out) {
		link := "/projects/" + url.PathEscape(p.Slug) + "/"
		o.raw(`<li class="project-card"><a`)
		o.href(link)
		o.attr("hx-get", link)
		o.raw(` hx-target="#modal" hx-swap="innerHTML">`)
		if len(p.Thumbnails) > 0 {
			o.raw(`<img loading="lazy" width="640" height="360"`)
			o.attr("src", string(templ.URL(p.Thumbnails[0])))
			o.attr("alt", p.Title)
			o.raw(`/>`)
		}
		o.raw(`<h2>`)
		o.text(p.Title)
		o.raw(`</h2><p>`)
		o.text(p.Description)
		o.raw(`</p>`)
		o.child(stackList(p.Stack))
		o.raw(`</a></li>`)
	})
}

func stackList(stack []string) templ.Component {
	return component(func(o *out) {
		o.raw(`<ul class="stack">`)
		for _, s := range stack {
			o.raw(`<li>`)
			o.text(s)
			o.raw(`</li>`)
		}
		o.raw(`</ul>`)
	})
}

// ProjectModal is the detail dialog for one project.
func ProjectModal(p projects.Project) templ.Component {
	return component(func(o *out) {
		o.raw(`<div class="modal-backdrop" hx-post="/projects/modal/close/" hx-trigger="click target:.modal-backdrop, keyup[key=='Escape'] from:body" hx-target="#modal" hx-swap="innerHTML">`)
		o.raw(`<article class="modal" role="dialog" aria-modal="true"><header><h2>`)
		o.text(p.Title)
		o.raw(`</h2><button type="button" class="close" hx-post="/projects/modal/close/" hx-target="#modal" hx-swap="innerHTML" aria-label="Close">&times;</button></header>`)
		if p.CreatedAt != "" {
			o.raw(`<time`)
			o.attr("datetime", p.CreatedAt)
			o.raw(`>`)
			o.text(p.CreatedAt)
			o.raw(`</time>`)
		}
		o.raw(`<div class="gallery">`)
		for _, src := range p.Thumbnails {
			o.raw(`<img loading="lazy"`)
			o.attr("src", string(templ.URL(src)))
			o.attr("alt", p.Title)
			o.raw(`/>`)
		}
		o.raw(`</div>`)
		o.child(stackList(p.Stack))
		o.raw(`<div class="links">`)
		if p.Link != "" {
			o.raw(`<a target="_blank" rel="noopener noreferrer"`)
			o.href(p.Link)
			o.raw(`>Live site</a>`)
		}
		if p.GitHubURL != "" {
			o.raw(`<a target="_blank" rel="noopener noreferrer"`)
			o.href(p.GitHubURL)
			o.raw(`>GitHub</a>`)
		}
		o.raw(`</div><div class="prose">`)
		o.child(markdown.Markdown(p.Content))
		o.raw(`</div></article></div>`)
	})
}
