package views

import (
	"github.com/a-h/templ"
)

// Contact is the contact page with the inquiry form.
func Contact(site Site, data ContactPage) templ.Component {
	body := component(func(o *out) {
		o.raw(`<section class="contact"><div class="intro"><h1>Let's work together</h1>`)
		o.raw(`<p>If you'd like to start a project together or just have a question, get in touch any time.</p></div>`)
		o.raw(`<form class="contact-form" method="post" action="/contact/" hx-post="/contact/" hx-target="#contact-result" hx-swap="innerHTML" hx-disabled-elt="find button">`)
		o.raw(`<input type="hidden" name="_csrf"`)
		o.attr("value", data.CSRFToken)
		o.raw(`/>`)
		field(o, "name", "Name", "text", "Hong Gildong", true)
		field(o, "email", "Email", "email", "email@email.com", true)
		field(o, "phone", "Phone", "tel", "010-1111-2222", false)
		o.raw(`<label>Service<select name="service"><option value="">Choose a service</option>`)
		for _, s := range data.Services {
			o.raw(`<option`)
			o.attr("value", s.Value)
			o.raw(`>`)
			o.text(s.Label)
			o.raw(`</option>`)
		}
		o.raw(`</select></label>`)
		o.raw(`<label>Message<textarea name="message" rows="6" required placeholder="Write your message."></textarea></label>`)
		o.raw(`<button type="submit" class="button">Send</button>`)
		o.raw(`<div id="contact-result" aria-live="polite"></div></form>`)

		o.raw(`<ul class="contact-info"><li><span>Email</span>`)
		o.text(data.Info.Email)
		o.raw(`</li><li><span>Phone</span>`)
		o.text(data.Info.Phone)
		o.raw(`</li><li><span>Location</span>`)
		o.text(data.Info.Location)
		o.raw(`</li></ul></section>`)
	})
	return Layout(site, PageMeta{
		Title:       "Contact",
		Description: "Get in touch.",
		Path:        "/contact/",
	}, body)
}

func field(o *out, name, label, typ, placeholder string, required bool) {
	o.raw(`<label>`)
	o.text(label)
	o.raw(`<input`)
	o.attr("type", typ)
	o.attr("name", name)
	o.attr("placeholder", placeholder)
	if required {
		o.raw(` required`)
	}
	o.raw(`/></label>`)
}

// ContactResult is the toast swapped in after an HTMX submit.
func ContactResult(ok bool, message string) templ.Component {
	return component(func(o *out) {
		class := "toast error"
		if ok {
			class = "toast success"
		}
		o.raw(`<p`)
		o.attr("class", class)
		o.raw(`>`)
		o.text(message)
		o.raw(`</p>`)
	})
}
