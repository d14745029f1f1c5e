package portfolio

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kimkuns/portfolio/blog"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
}

func (a *App) buildRSS(posts []blog.Post) rssXML {
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		if p.IsPrivate {
			continue
		}
		pubDate := ""
		if t := p.Released(); !t.IsZero() {
			pubDate = t.Format(time.RFC1123Z)
		}
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        p.URL(),
			Description: strings.TrimSpace(p.ShortDescription),
			Categories:  p.Tags,
			PubDate:     pubDate,
			GUID:        p.URL(),
		})
	}
	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name + " Blog",
			Link:        BuildURL(a.Config.URL, "blog"),
			Description: "Latest posts by @" + a.Blog.Username() + " on Velog.",
			Items:       items,
		},
	}
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Blog.Posts(c.Request().Context(), "")
	if err != nil {
		c.Logger().Errorf("feed: %v", err)
		return echo.NewHTTPError(http.StatusBadGateway, "blog feed unavailable")
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(a.buildRSS(posts))
}
