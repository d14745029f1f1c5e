package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/kimkuns/portfolio/content"
)

// Home is the landing page: hero, stats and skills.
func Home(site Site, p content.Profile) templ.Component {
	body := component(func(o *out) {
		o.raw(`<section class="hero"><p class="role">`)
		o.text(p.Role)
		o.raw(`</p><h1>Hello, I'm <span class="accent">`)
		o.text(p.Name)
		o.raw(`</span></h1><p class="intro">`)
		o.text(p.Intro)
		o.raw(`</p><div class="cta"><a class="button" href="/contact/">Get in touch</a>`)
		o.raw(`<a class="button ghost" href="/projects/">See projects</a></div></section>`)

		o.raw(`<section class="stats">`)
		for _, s := range p.Stats {
			o.raw(`<div class="stat"><span class="value">`)
			o.text(strconv.Itoa(s.Value))
			o.raw(`</span><span class="label">`)
			o.text(s.Label)
			o.raw(`</span></div>`)
		}
		o.raw(`</section>`)

		o.raw(`<section class="skills"><h2>Skills</h2><ul>`)
		for _, s := range p.Skills {
			o.raw(`<li`)
			o.attr("data-category", s.Category)
			o.raw(`>`)
			o.text(s.Name)
			o.raw(`</li>`)
		}
		o.raw(`</ul></section>`)
	})
	return Layout(site, PageMeta{Description: p.Intro, Path: "/"}, body)
}

// About shows the longer bio and the timeline.
func About(site Site, p content.Profile) templ.Component {
	body := component(func(o *out) {
		o.raw(`<section class="about"><h1>About me</h1><p>`)
		o.text(p.About)
		o.raw(`</p></section><section class="timeline"><h2>Timeline</h2><ol>`)
		for _, e := range p.Timeline {
			o.raw(`<li><span class="period">`)
			o.text(e.Period)
			o.raw(`</span><h3>`)
			o.text(e.Title)
			o.raw(`</h3><p class="place">`)
			o.text(e.Place)
			o.raw(`</p><p>`)
			o.text(e.Detail)
			o.raw(`</p></li>`)
		}
		o.raw(`</ol></section>`)
	})
	return Layout(site, PageMeta{Title: "About", Description: p.About, Path: "/about/"}, body)
}

// NotFound is the 404 page.
func NotFound(site Site) templ.Component {
	body := component(func(o *out) {
		o.raw(`<section class="error"><h1>404</h1><p>This page could not be found.</p><a class="button" href="/">Go home</a></section>`)
	})
	return Layout(site, PageMeta{Title: "Not found"}, body)
}

// ServerError is the 500 page.
func ServerError(site Site) templ.Component {
	body := component(func(o *out) {
		o.raw(`<section class="error"><h1>500</h1><p>Something went wrong. Please try again later.</p><a class="button" href="/">Go home</a></section>`)
	})
	return Layout(site, PageMeta{Title: "Error"}, body)
}
