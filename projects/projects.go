// Package projects holds the static project catalog and its search.
package projects

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// ErrNotFound is returned when no project has the requested slug.
var ErrNotFound = errors.New("project not found")

// Project is a portfolio entry defined at build time.
type Project struct {
	Slug        string   `yaml:"slug" json:"slug"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Stack       []string `yaml:"stack" json:"stack"`
	Thumbnails  []string `yaml:"thumbnails" json:"thumbnails"`
	Link        string   `yaml:"link" json:"link,omitempty"`
	GitHubURL   string   `yaml:"github_url" json:"github_url,omitempty"`
	CreatedAt   string   `yaml:"created_at" json:"created_at"`
	Content     string   `yaml:"content" json:"content"`
}

// Matches reports whether the lowercased query appears in the title,
// the description or any stack entry.
func (p Project) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, tech := range p.Stack {
		if strings.Contains(strings.ToLower(tech), q) {
			return true
		}
	}
	return false
}

// Catalog is an immutable, ordered list of projects.
type Catalog struct {
	projects []Project
	bySlug   map[string]int
}

// NewCatalog validates the list and indexes it by slug.
func NewCatalog(list []Project) (*Catalog, error) {
	c := &Catalog{
		projects: make([]Project, len(list)),
		bySlug:   make(map[string]int, len(list)),
	}
	copy(c.projects, list)
	for i, p := range c.projects {
		if strings.TrimSpace(p.Slug) == "" {
			return nil, fmt.Errorf("project %d (%q): slug is required", i, p.Title)
		}
		if _, dup := c.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("project %q: duplicate slug", p.Slug)
		}
		c.bySlug[p.Slug] = i
	}
	return c, nil
}

// All returns every project in catalog order.
func (c *Catalog) All() []Project {
	out := make([]Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// Len returns the number of projects.
func (c *Catalog) Len() int {
	return len(c.projects)
}

// Get returns the project with the given slug.
func (c *Catalog) Get(slug string) (Project, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Project{}, ErrNotFound
	}
	return c.projects[i], nil
}

// Search filters the catalog by a case-insensitive substring. An empty
// query returns the full list; a query matching nothing returns an empty
// slice.
func (c *Catalog) Search(query string) []Project {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.All()
	}
	out := []Project{}
	for _, p := range c.projects {
		if p.Matches(query) {
			out = append(out, p)
		}
	}
	return out
}

// Stacks returns the distinct stack entries in natural order.
func (c *Catalog) Stacks() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.projects {
		for _, tech := range p.Stack {
			tech = strings.TrimSpace(tech)
			if tech == "" {
				continue
			}
			if _, ok := seen[tech]; ok {
				continue
			}
			seen[tech] = struct{}{}
			out = append(out, tech)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return natural.Less(out[i], out[j])
	})
	return out
}
