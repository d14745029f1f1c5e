package views

import (
	"github.com/kimkuns/portfolio/blog"
	"github.com/kimkuns/portfolio/content"
	"github.com/kimkuns/portfolio/projects"
)

// Site holds site-wide settings every page needs.
type Site struct {
	Name    string
	URL     string
	Socials []content.Social
}

// PageMeta carries the per-page title and description into <head>.
type PageMeta struct {
	Title       string
	Description string
	Path        string // section path, used to highlight the nav
}

// ProjectsPage is the data behind /projects/.
type ProjectsPage struct {
	Query   string
	Results []projects.Project
	Stacks  []string
	Total   int
	Modal   *projects.Project
}

// BlogPage is the data behind /blog/ and its scroll partials.
type BlogPage struct {
	Username   string
	Posts      []blog.Post
	NextCursor string
	Failed     bool
}

// ContactPage is the data behind /contact/.
type ContactPage struct {
	Info      content.ContactInfo
	Services  []content.ServiceOption
	CSRFToken string
}

var navItems = []struct {
	Path  string
	Label string
}{
	{"/", "Home"},
	{"/about/", "About"},
	{"/projects/", "Projects"},
	{"/blog/", "Blog"},
	{"/contact/", "Contact"},
}
