// Package content loads the site's build-time content: the project
// catalog and the profile shown on the home, about and contact pages.
package content

import (
	"embed"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/kimkuns/portfolio/projects"
)

//go:embed *.yaml
var files embed.FS

// Stat is a headline number on the home page.
type Stat struct {
	Label string `yaml:"label"`
	Value int    `yaml:"value"`
}

// Skill is an entry in the skills grid.
type Skill struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// TimelineEntry is one row of the about page timeline.
type TimelineEntry struct {
	Period string `yaml:"period"`
	Title  string `yaml:"title"`
	Place  string `yaml:"place"`
	Detail string `yaml:"detail"`
}

// ContactInfo is shown next to the contact form.
type ContactInfo struct {
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Location string `yaml:"location"`
}

// ServiceOption is a choice in the contact form's service select.
type ServiceOption struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Social is a link in the header and footer.
type Social struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Profile is everything about the site owner that is not a project.
type Profile struct {
	Name     string          `yaml:"name"`
	Role     string          `yaml:"role"`
	Intro    string          `yaml:"intro"`
	About    string          `yaml:"about"`
	Stats    []Stat          `yaml:"stats"`
	Skills   []Skill         `yaml:"skills"`
	Timeline []TimelineEntry `yaml:"timeline"`
	Contact  ContactInfo     `yaml:"contact"`
	Services []ServiceOption `yaml:"services"`
	Socials  []Social        `yaml:"socials"`
}

type projectFile struct {
	Projects []projects.Project `yaml:"projects"`
}

// LoadProfile parses the embedded profile.yaml.
func LoadProfile() (Profile, error) {
	var p Profile
	if err := decode("profile.yaml", &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// LoadProjects parses the embedded projects.yaml into a catalog.
func LoadProjects() (*projects.Catalog, error) {
	var f projectFile
	if err := decode("projects.yaml", &f); err != nil {
		return nil, err
	}
	return projects.NewCatalog(f.Projects)
}

// ParseProjects parses a projects document from raw YAML.
func ParseProjects(data []byte) (*projects.Catalog, error) {
	var f projectFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse projects: %w", err)
	}
	return projects.NewCatalog(f.Projects)
}

func decode(name string, v any) error {
	data, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
