package portfolio

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kimkuns/portfolio/blog"
	"github.com/kimkuns/portfolio/projects"
	"github.com/kimkuns/portfolio/state"
	"github.com/kimkuns/portfolio/views"
)

func (a *App) handleHome(c echo.Context) error {
	return Render(c, views.Home(a.site(), a.Profile))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, views.About(a.site(), a.Profile))
}

func (a *App) handleProjects(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	results := a.Projects.Search(q)

	// The search box swaps only the list.
	if isHTMX(c) && c.Request().Header.Get("HX-Target") == "project-list" {
		return Render(c, views.ProjectList(q, results, a.Projects.Len()))
	}

	vs, err := a.viewState(c)
	if err != nil {
		return err
	}
	return Render(c, views.Projects(a.site(), views.ProjectsPage{
		Query:   q,
		Results: results,
		Stacks:  a.Projects.Stacks(),
		Total:   a.Projects.Len(),
		Modal:   state.Visible(vs),
	}))
}

func (a *App) handleProject(c echo.Context) error {
	p, err := a.Projects.Get(c.Param("slug"))
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		return err
	}

	vs, err := a.viewState(c)
	if err != nil {
		return err
	}
	state.Open(vs, p)
	if err := vs.Save(c); err != nil {
		return err
	}

	if isHTMX(c) {
		return Render(c, views.ProjectModal(p))
	}
	return Render(c, views.Projects(a.site(), views.ProjectsPage{
		Results: a.Projects.All(),
		Stacks:  a.Projects.Stacks(),
		Total:   a.Projects.Len(),
		Modal:   &p,
	}))
}

func (a *App) handleModalClose(c echo.Context) error {
	vs, err := a.viewState(c)
	if err != nil {
		return err
	}
	state.Close(vs)
	if err := vs.Save(c); err != nil {
		return err
	}
	if isHTMX(c) {
		return c.HTML(http.StatusOK, "")
	}
	return c.Redirect(http.StatusSeeOther, "/projects/")
}

func (a *App) handleBlog(c echo.Context) error {
	cursor := c.QueryParam("cursor")
	data := views.BlogPage{Username: a.Blog.Username(), NextCursor: cursor}

	// One page per request. Repeat triggers of the feed sentinel are
	// dropped in the browser by its hx-sync.
	posts, err := blog.NewFeed(a.Blog, cursor).Next(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("blog feed cursor=%q: %v", cursor, err)
		data.Failed = true
	}
	data.Posts = posts

	if isHTMX(c) && c.QueryParams().Has("cursor") {
		return Render(c, views.BlogPosts(data))
	}
	return Render(c, views.Blog(a.site(), data))
}

func (a *App) handleContactPage(c echo.Context) error {
	return Render(c, views.Contact(a.site(), views.ContactPage{
		Info:      a.Profile.Contact,
		Services:  a.Profile.Services,
		CSRFToken: CsrfToken(c),
	}))
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /admin\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sitemap: %s\n", BuildURL(a.Config.URL, "sitemap.xml"))
	return c.String(http.StatusOK, b.String())
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		msg := http.StatusText(code)
		if code >= 500 {
			msg = "Internal server error"
		}
		_ = jsonError(c, code, msg)
		return
	}

	switch {
	case code == http.StatusNotFound:
		_ = RenderStatus(c, code, views.NotFound(a.site()))
	case code >= 500:
		_ = RenderStatus(c, code, views.ServerError(a.site()))
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
