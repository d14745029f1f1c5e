package portfolio

import (
	"net/url"
	"path"
	"strings"
)

// BuildURL joins a base URL with path segments. Page paths get a trailing
// slash; paths whose last segment names a file ("sitemap.xml") do not.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") && path.Ext(u.Path) == "" {
		u.Path += "/"
	}
	return u.String()
}
