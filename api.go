package portfolio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tidwall/gjson"

	"github.com/kimkuns/portfolio/blog"
	"github.com/kimkuns/portfolio/contact"
	"github.com/kimkuns/portfolio/projects"
	"github.com/kimkuns/portfolio/views"
)

const (
	maxProxyBody = 64 << 10
	sendTimeout  = 30 * time.Second
)

// handleBlogProxy relays a GraphQL request body to Velog and returns the
// upstream payload unchanged.
func (a *App) handleBlogProxy(c echo.Context) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxProxyBody))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.Logger().Errorf("blog proxy: request body over %d bytes", tooLarge.Limit)
		return jsonError(c, http.StatusRequestEntityTooLarge, "Request body too large")
	}
	if err != nil || !gjson.ValidBytes(body) {
		c.Logger().Errorf("blog proxy: invalid request body")
		return jsonError(c, http.StatusInternalServerError, "Internal server error")
	}

	resp, err := a.Blog.Forward(c.Request().Context(), body)
	if err != nil {
		c.Logger().Errorf("blog proxy: %v", err)
		return jsonError(c, http.StatusInternalServerError, "Internal server error")
	}
	if !resp.OK() {
		c.Logger().Errorf("blog proxy: upstream status %d", resp.Status)
		return jsonError(c, resp.Status, "Failed to fetch from Velog API")
	}
	if !resp.Cached {
		switch err := blog.Validate(resp.Body); {
		case errors.Is(err, blog.ErrEmpty):
			c.Logger().Errorf("blog proxy: empty upstream payload")
			return jsonError(c, http.StatusInternalServerError, "Invalid response from Velog API")
		case err != nil:
			c.Logger().Errorf("blog proxy: %v", err)
			return jsonError(c, http.StatusInternalServerError, "Internal server error")
		}
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, resp.Body)
}

type contactResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// handleContact validates a submission and mails it to the owner. It
// serves both the JSON API and the HTMX form.
func (a *App) handleContact(c echo.Context) error {
	ip := c.RealIP()
	release, ok := a.contactLimiter.Reserve(ip)
	if !ok {
		retry := a.contactLimiter.Retry(ip)
		c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
		return contactFailure(c, http.StatusTooManyRequests, "Too many requests")
	}
	// Only a delivered message keeps its slot.
	sent := false
	defer func() {
		if !sent {
			release()
		}
	}()

	var sub contact.Submission
	if err := c.Bind(&sub); err != nil {
		c.Logger().Errorf("contact: bind: %v", err)
		return contactFailure(c, http.StatusInternalServerError, "Failed to send email")
	}
	sub.Normalize()
	switch err := sub.Validate(); {
	case errors.Is(err, contact.ErrMissingFields):
		return contactFailure(c, http.StatusBadRequest, "Required fields are missing")
	case errors.Is(err, contact.ErrInvalidEmail):
		return contactFailure(c, http.StatusBadRequest, "Invalid email address")
	case err != nil:
		return contactFailure(c, http.StatusBadRequest, err.Error())
	}

	if !a.mailer.Configured() {
		c.Logger().Errorf("contact: EMAIL_USER or EMAIL_PASS is not set")
		return contactFailure(c, http.StatusInternalServerError, "Email service is not configured")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), sendTimeout)
	defer cancel()
	msg, err := contact.NewMessage(ctx, sub, a.Config.SMTP.Username, a.Config.Name)
	if err != nil {
		c.Logger().Errorf("contact: render message: %v", err)
		return contactFailure(c, http.StatusInternalServerError, "Failed to send email")
	}
	if err := a.mailer.Send(ctx, msg); err != nil {
		c.Logger().Errorf("contact: send: %v", err)
		return contactFailure(c, http.StatusInternalServerError, "Failed to send email")
	}
	sent = true

	if isHTMX(c) {
		return Render(c, views.ContactResult(true, "Thanks! Your message has been sent."))
	}
	return c.JSON(http.StatusOK, contactResponse{Message: "Email sent successfully", Success: true})
}

func contactFailure(c echo.Context, code int, msg string) error {
	if isHTMX(c) {
		return RenderStatus(c, code, views.ContactResult(false, msg))
	}
	return c.JSON(code, contactResponse{Error: msg, Success: false})
}

type projectSearchResponse struct {
	Query    string             `json:"query"`
	Total    int                `json:"total"`
	Projects []projects.Project `json:"projects"`
}

func (a *App) handleProjectSearch(c echo.Context) error {
	q := c.QueryParam("q")
	results := a.Projects.Search(q)
	return c.JSON(http.StatusOK, projectSearchResponse{
		Query:    q,
		Total:    len(results),
		Projects: results,
	})
}

func (a *App) handleProjectJSON(c echo.Context) error {
	p, err := a.Projects.Get(c.Param("slug"))
	if errors.Is(err, projects.ErrNotFound) {
		return jsonError(c, http.StatusNotFound, fmt.Sprintf("Project %q not found", c.Param("slug")))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
