package portfolio

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

var sitemapPages = []struct {
	path, freq, priority string
}{
	{"", "daily", "1.0"},
	{"about", "weekly", "0.8"},
	{"blog", "monthly", "0.7"},
	{"projects", "weekly", "0.7"},
	{"contact", "monthly", "0.5"},
}

func (a *App) sitemapURLs() []sitemapURL {
	urls := make([]sitemapURL, 0, len(sitemapPages))
	for _, p := range sitemapPages {
		loc := BuildURL(a.Config.URL)
		if p.path != "" {
			loc = BuildURL(a.Config.URL, p.path)
		}
		urls = append(urls, sitemapURL{Loc: loc, ChangeFreq: p.freq, Priority: p.priority})
	}
	return urls
}

func (a *App) handleSitemap(c echo.Context) error {
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  a.sitemapURLs(),
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
