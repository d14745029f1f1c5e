// Package markdown renders the small Markdown subset used in project
// write-ups as a templ component.
package markdown

import (
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*`)
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reLink       = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reOrdered    = regexp.MustCompile(`^\d+\.\s`)
)

type block int

const (
	none block = iota
	para
	bullets
	numbered
	quote
	code
)

var closers = map[block]string{
	para:     "</p>",
	bullets:  "</ul>",
	numbered: "</ol>",
	quote:    "</blockquote>",
	code:     "</code></pre>",
}

type renderer struct {
	b    strings.Builder
	open block
}

func (r *renderer) close() {
	if r.open != none {
		r.b.WriteString(closers[r.open])
		r.open = none
	}
}

// enter switches to kind, writing tag when a new block starts. It reports
// whether the block was already open.
func (r *renderer) enter(kind block, tag string) bool {
	if r.open == kind {
		return true
	}
	r.close()
	r.b.WriteString(tag)
	r.open = kind
	return false
}

// Markdown returns a component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, ToHTML(md))
		return err
	})
}

// ToHTML converts md to HTML. Raw HTML in the input is escaped.
func ToHTML(md string) string {
	var r renderer
	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r")

		if strings.HasPrefix(line, "```") {
			if r.open == code {
				r.close()
				continue
			}
			r.close()
			if lang := strings.TrimSpace(line[3:]); lang != "" {
				r.b.WriteString(`<pre><code class="language-` + html.EscapeString(lang) + `">`)
			} else {
				r.b.WriteString("<pre><code>")
			}
			r.open = code
			continue
		}
		if r.open == code {
			r.b.WriteString(html.EscapeString(line))
			r.b.WriteString("\n")
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			r.close()
		case strings.HasPrefix(line, "---"):
			r.close()
			r.b.WriteString("<hr/>")
		case strings.HasPrefix(line, "### "):
			r.heading(3, line[4:])
		case strings.HasPrefix(line, "## "):
			r.heading(2, line[3:])
		case strings.HasPrefix(line, "# "):
			r.heading(1, line[2:])
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			r.enter(bullets, "<ul>")
			r.b.WriteString("<li>" + Inline(strings.TrimSpace(line[2:])) + "</li>")
		case reOrdered.MatchString(line):
			r.enter(numbered, "<ol>")
			r.b.WriteString("<li>" + Inline(strings.TrimSpace(reOrdered.ReplaceAllString(line, ""))) + "</li>")
		case strings.HasPrefix(line, "> "):
			if r.enter(quote, "<blockquote>") {
				r.b.WriteString(" ")
			}
			r.b.WriteString(Inline(strings.TrimSpace(line[2:])))
		default:
			if r.enter(para, "<p>") {
				r.b.WriteString(" ")
			}
			r.b.WriteString(Inline(trimmed))
		}
	}
	r.close()
	return r.b.String()
}

func (r *renderer) heading(level int, text string) {
	r.close()
	n := strconv.Itoa(level)
	r.b.WriteString("<h" + n + ">" + Inline(strings.TrimSpace(text)) + "</h" + n + ">")
}

// Inline escapes s and applies code spans, links, bold and italic.
func Inline(s string) string {
	out := html.EscapeString(s)

	// Code spans are swapped for placeholders so emphasis never applies
	// inside them.
	var spans []string
	out = reInlineCode.ReplaceAllStringFunc(out, func(m string) string {
		inner := reInlineCode.FindStringSubmatch(m)[1]
		spans = append(spans, "<code>"+inner+"</code>")
		return "\x00" + strconv.Itoa(len(spans)-1) + "\x00"
	})

	out = reLink.ReplaceAllStringFunc(out, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		attrs := ""
		if strings.HasPrefix(href, "http") {
			attrs = ` target="_blank" rel="noopener noreferrer"`
		}
		return `<a href="` + href + `"` + attrs + `>` + match[1] + `</a>`
	})

	out = outsideTags(out, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		return reItalic.ReplaceAllString(seg, "<em>$1</em>")
	})

	for i, span := range spans {
		out = strings.Replace(out, "\x00"+strconv.Itoa(i)+"\x00", span, 1)
	}
	return out
}

// outsideTags applies fn to the text between HTML tags only, so attribute
// values such as hrefs are left alone.
func outsideTags(s string, fn func(string) string) string {
	var b strings.Builder
	for s != "" {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(fn(s))
			break
		}
		b.WriteString(fn(s[:lt]))
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		b.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return b.String()
}

// SafeURL returns raw escaped for an attribute when it is relative or uses
// an allowed scheme, and "" otherwise.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	u, err := url.Parse(val)
	if err != nil || u.Scheme == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
		return html.EscapeString(val)
	}
	return ""
}
