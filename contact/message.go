package contact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/quotedprintable"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
)

// Message is a rendered outbound email.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// NewMessage renders the notification for sub. It goes to both the
// submitter and the site owner (from), with replies routed to the
// submitter.
func NewMessage(ctx context.Context, sub Submission, from, site string) (Message, error) {
	var buf bytes.Buffer
	if err := Body(sub, site).Render(ctx, &buf); err != nil {
		return Message{}, fmt.Errorf("render email body: %w", err)
	}
	return Message{
		From:    from,
		To:      []string{sub.Email, from},
		ReplyTo: sub.Email,
		Subject: fmt.Sprintf("[Portfolio] New inquiry from %s", sub.Name),
		HTML:    buf.String(),
	}, nil
}

// Body is the HTML email body. Every field is escaped; optional rows are
// left out when empty.
func Body(sub Submission, site string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ddd; border-radius: 10px; background-color: #f9f9f9;">`)
		b.WriteString(`<h2 style="color: #333; border-bottom: 2px solid #00D9FF; padding-bottom: 10px;">New inquiry received</h2>`)
		b.WriteString(`<div style="margin: 20px 0;">`)
		row(&b, "Name", templ.EscapeString(sub.Name))
		email := templ.EscapeString(sub.Email)
		row(&b, "Email", `<a href="mailto:`+email+`" style="color: #00D9FF;">`+email+`</a>`)
		if sub.Phone != "" {
			row(&b, "Phone", templ.EscapeString(sub.Phone))
		}
		if sub.Service != "" {
			row(&b, "Service", templ.EscapeString(sub.Service))
		}
		b.WriteString(`</div>`)
		b.WriteString(`<div style="margin: 20px 0;"><p style="color: #555; margin-bottom: 10px;"><strong>Message:</strong></p>`)
		b.WriteString(`<div style="color: #555; background-color: #fff; padding: 15px; border: 1px solid #ddd; border-radius: 5px; white-space: pre-wrap;">`)
		b.WriteString(templ.EscapeString(sub.Message))
		b.WriteString(`</div></div>`)
		b.WriteString(`<p style="font-size: 0.9em; color: #777; border-top: 1px solid #ddd; padding-top: 10px; margin-top: 20px;">`)
		b.WriteString(`Sent automatically from the contact form on ` + templ.EscapeString(site) + `.</p>`)
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(`<p style="color: #555; margin: 10px 0;"><strong>`)
	b.WriteString(label)
	b.WriteString(`:</strong> `)
	b.WriteString(value)
	b.WriteString(`</p>`)
}

// Bytes encodes m as an RFC 5322 message with a quoted-printable HTML part.
func (m Message) Bytes(now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	header := func(k, v string) {
		buf.WriteString(k + ": " + v + "\r\n")
	}
	domain := "localhost"
	if i := strings.LastIndex(m.From, "@"); i >= 0 && i < len(m.From)-1 {
		domain = m.From[i+1:]
	}
	header("From", m.From)
	header("To", strings.Join(m.To, ", "))
	if m.ReplyTo != "" {
		header("Reply-To", m.ReplyTo)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", "<"+uuid.NewString()+"@"+domain+">")
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="utf-8"`)
	header("Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(m.HTML)); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return buf.Bytes(), nil
}
