// Package views contains the site's templ components.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// out accumulates the first write error so components read as a flat
// sequence of writes.
type out struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (o *out) raw(parts ...string) {
	for _, s := range parts {
		if o.err != nil {
			return
		}
		_, o.err = io.WriteString(o.w, s)
	}
}

func (o *out) text(s string) {
	o.raw(templ.EscapeString(s))
}

func (o *out) attr(name, value string) {
	o.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (o *out) href(u string) {
	o.attr("href", string(templ.URL(u)))
}

func (o *out) child(c templ.Component) {
	if o.err != nil || c == nil {
		return
	}
	o.err = c.Render(o.ctx, o.w)
}

func component(fn func(o *out)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		o := &out{ctx: ctx, w: w}
		fn(o)
		return o.err
	})
}
