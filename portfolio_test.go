package portfolio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kr/pretty"

	"github.com/kimkuns/portfolio/contact"
)

type fakeMailer struct {
	mu           sync.Mutex
	sent         []contact.Message
	err          error
	unconfigured bool
	delay        time.Duration
}

func (m *fakeMailer) Configured() bool { return !m.unconfigured }

func (m *fakeMailer) Send(_ context.Context, msg contact.Message) error {
	time.Sleep(m.delay)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type upstream struct {
	srv    *httptest.Server
	hits   atomic.Int32
	status atomic.Int32
	body   string
}

func newUpstream(t *testing.T, status int, body string) *upstream {
	t.Helper()
	u := &upstream{body: body}
	u.status.Store(int32(status))
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("upstream Content-Type = %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(u.status.Load()))
		io.WriteString(w, u.body)
	}))
	t.Cleanup(u.srv.Close)
	return u
}

const twoPosts = `{"data":{"posts":[` +
	`{"id":"p1","title":"First <post>","short_description":"one","url_slug":"first","released_at":"2025-02-01T10:00:00Z","user":{"username":"kimkuns"},"tags":["go"],"likes":3},` +
	`{"id":"p2","title":"Second","short_description":"two","url_slug":"second","released_at":"2025-01-01T10:00:00Z","user":{"username":"kimkuns"},"is_private":true}` +
	`]}}`

func setupTestApp(t *testing.T, up *upstream, mailer contact.Mailer) *App {
	t.Helper()
	opts := []Option{WithMailer(mailer)}
	if up != nil {
		opts = append(opts, WithBlogEndpoint(up.srv.URL), WithHTTPClient(up.srv.Client()))
	}
	a := New(SiteConfig{
		Name:          "Test Site",
		URL:           "https://example.com/",
		LogLevel:      "off",
		CachePath:     filepath.Join(t.TempDir(), "cache.db"),
		SessionSecret: "test-secret",
		SMTP:          contact.SMTPConfig{Username: "owner@example.com", Password: "x"},
	}, opts...)
	if err := a.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func do(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestInitRequiresSessionSecret(t *testing.T) {
	a := New(SiteConfig{CachePath: filepath.Join(t.TempDir(), "c.db")})
	if err := a.Init(); err == nil {
		t.Fatal("expected error without session secret")
	}
}

func TestHealth(t *testing.T) {
	a := setupTestApp(t, nil, &fakeMailer{})
	rec := do(a, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := decodeJSON(t, rec)["status"]; got != "ok" {
		t.Errorf("status field = %v", got)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q", cc)
	}
}

func TestPagesRender(t *testing.T) {
	a := setupTestApp(t, nil, &fakeMailer{})
	for _, path := range []string{"/", "/about/", "/projects/", "/contact/"} {
		rec := do(a, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d", path, rec.Code)
			continue
		}
		if !strings.Contains(rec.Body.String(), "<title>") {
			t.Errorf("%s: expected full document", path)
		}
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	a := setupTestApp(t, nil, &fakeMailer{})
	rec := do(a, httptest.NewRequest(http.MethodGet, "/about", nil))
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/about/" {
		t.Errorf("Location = %q", loc)
	}
}

func TestNotFoundPage(t *testing.T) {
	a := setupTestApp(t, nil, &fakeMailer{})
	rec := do(a, httptest.NewRequest(http.MethodGet, "/projects/missing/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
}

func TestProjectsSearchPartial(t *testing.T) {
	a := setupTestApp(t, nil, &fakeMailer{})
	req := httptest.NewRequest(http.MethodGet, "/projects/?q=REACT", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "project-list")
	rec := do(a, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "<html") {
		t.Error("expected list partial, got full page")
	}
	if !strings.Contains(body, "Dev Diary") || !strings.Contains(body, "MovieBox") {
		t.Errorf("expected React projects in %s", body)
	}
	if strings.Contains(body, "Team Board") {
		t.Error("Team Board should not match react")
	}
}

func TestProjectSearchJSON(t *testing.T) {
	a := setupTestApp(t, nil, &fakeMailer{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/api/projects?q=zzz-no-match", nil))
	var got projectSearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != 0 || got.Projects == nil {
		t.Errorf("expected empty non-nil result, got %# v", pretty.Formatter(got))
	}
	if !strings.Contains(rec.Body.String(), `"projects":[]`) {
		t.Errorf("expected empty array in %s", rec.Body.String())
	}

	rec = do(a, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != a.Projects.Len() {
		t.Errorf("empty query total = %d, want %d", got.Total, a.Projects.Len())
	}
}

func TestProjectJSON(t *testing.T) {
	a := setupTestApp(t, nil, &fakeMailer{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/api/projects/moviebox", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want, _ := a.Projects.Get("moviebox")
	var got struct {
		Slug  string   `json:"slug"`
		Stack []string `json:"stack"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := pretty.Diff(got.Stack, want.Stack); len(diff) > 0 || got.Slug != "moviebox" {
		t.Errorf("project mismatch: %v", diff)
	}

	rec = do(a, httptest.NewRequest(http.MethodGet, "/api/projects/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, ok := decodeJSON(t, rec)["error"]; !ok {
		t.Error("expected error field")
	}
}

func TestProjectModalSessionState(t *testing.T) {
	a := setupTestApp(t, nil, &fakeMailer{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/projects/moviebox/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("open: status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `class="modal-backdrop"`) {
		t.Fatal("expected modal rendered on direct visit")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/projects/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec = do(a, req)
	if !strings.Contains(rec.Body.String(), `class="modal-backdrop"`) {
		t.Fatal("expected modal to stay open across reloads")
	}

	req = httptest.NewRequest(http.MethodPost, "/projects/modal/close/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec = do(a, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("close: status = %d", rec.Code)
	}
	closed := rec.Result().Cookies()

	req = httptest.NewRequest(http.MethodGet, "/projects/", nil)
	for _, ck := range closed {
		req.AddCookie(ck)
	}
	rec = do(a, req)
	if strings.Contains(rec.Body.String(), `class="modal-backdrop"`) {
		t.Fatal("expected modal closed")
	}
}

func TestProjectModalHTMX(t *testing.T) {
	a := setupTestApp(t, nil, &fakeMailer{})
	req := httptest.NewRequest(http.MethodGet, "/projects/team-board/", nil)
	req.Header.Set("HX-Request", "true")
	rec := do(a, req)
	body := rec.Body.String()
	if strings.Contains(body, "<html") || !strings.Contains(body, "Team Board") {
		t.Errorf("expected modal fragment, got %s", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/projects/modal/close/", nil)
	req.Header.Set("HX-Request", "true")
	rec = do(a, req)
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("close: status = %d body = %q", rec.Code, rec.Body.String())
	}
}

func TestBlogProxyPassThrough(t *testing.T) {
	up := newUpstream(t, http.StatusOK, twoPosts)
	a := setupTestApp(t, up, &fakeMailer{})

	reqBody := `{"query":"{ posts { id } }"}`
	for i := 0; i < 2; i++ {
		rec := do(a, httptest.NewRequest(http.MethodPost, "/api/blog", strings.NewReader(reqBody)))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if rec.Body.String() != twoPosts {
			t.Fatalf("body changed:\n got %s\nwant %s", rec.Body.String(), twoPosts)
		}
	}
	if n := up.hits.Load(); n != 1 {
		t.Errorf("upstream hits = %d, want 1 (second request cached)", n)
	}
}

func TestBlogProxySharesCacheAcrossFormatting(t *testing.T) {
	up := newUpstream(t, http.StatusOK, twoPosts)
	a := setupTestApp(t, up, &fakeMailer{})

	for i := 0; i < 100; i++ {
		body := fmt.Sprintf(`{"query":"{ posts { id } }"%s}`, strings.Repeat(" ", i))
		rec := do(a, httptest.NewRequest(http.MethodPost, "/api/blog", strings.NewReader(body)))
		if rec.Code != http.StatusOK {
			t.Fatalf("variant %d: status = %d", i, rec.Code)
		}
	}
	if n := up.hits.Load(); n != 1 {
		t.Errorf("upstream hits = %d, want 1", n)
	}
	if n := a.Cache.Len(); n != 1 {
		t.Errorf("cached responses = %d, want 1", n)
	}
}

func TestBlogProxyRejectsLargeBody(t *testing.T) {
	up := newUpstream(t, http.StatusOK, twoPosts)
	a := setupTestApp(t, up, &fakeMailer{})

	body := `{"query":"` + strings.Repeat("x", maxProxyBody) + `"}`
	rec := do(a, httptest.NewRequest(http.MethodPost, "/api/blog", strings.NewReader(body)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if got := decodeJSON(t, rec)["error"]; got != "Request body too large" {
		t.Errorf("error = %v", got)
	}
	if n := up.hits.Load(); n != 0 {
		t.Errorf("upstream hits = %d, want 0", n)
	}
}

func TestBlogProxyErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		upstream   string
		request    string
		wantStatus int
		wantError  string
	}{
		{"invalid request json", 200, twoPosts, `{not json`, 500, "Internal server error"},
		{"upstream error", 502, `{"errors":[]}`, `{}`, 502, "Failed to fetch from Velog API"},
		{"upstream not found", 404, `nope`, `{}`, 404, "Failed to fetch from Velog API"},
		{"null payload", 200, `null`, `{}`, 500, "Invalid response from Velog API"},
		{"malformed payload", 200, `<html>`, `{}`, 500, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := newUpstream(t, tt.status, tt.upstream)
			a := setupTestApp(t, up, &fakeMailer{})
			rec := do(a, httptest.NewRequest(http.MethodPost, "/api/blog", strings.NewReader(tt.request)))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := decodeJSON(t, rec)["error"]; got != tt.wantError {
				t.Errorf("error = %v, want %q", got, tt.wantError)
			}
		})
	}
}

func TestBlogPage(t *testing.T) {
	up := newUpstream(t, http.StatusOK, twoPosts)
	a := setupTestApp(t, up, &fakeMailer{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/blog/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "First &lt;post&gt;") {
		t.Errorf("expected escaped title in page")
	}
	if !strings.Contains(body, `hx-get="/blog/?cursor=p2"`) {
		t.Errorf("expected sentinel for cursor p2")
	}

	req := httptest.NewRequest(http.MethodGet, "/blog/?cursor=p2", nil)
	req.Header.Set("HX-Request", "true")
	rec = do(a, req)
	if strings.Contains(rec.Body.String(), "<html") {
		t.Error("expected fragment for scroll request")
	}
}

func TestBlogPageEndAndFailure(t *testing.T) {
	up := newUpstream(t, http.StatusOK, `{"data":{"posts":[]}}`)
	a := setupTestApp(t, up, &fakeMailer{})

	req := httptest.NewRequest(http.MethodGet, "/blog/?cursor=p9", nil)
	req.Header.Set("HX-Request", "true")
	rec := do(a, req)
	if !strings.Contains(rec.Body.String(), "No more posts.") || strings.Contains(rec.Body.String(), "feed-sentinel") {
		t.Errorf("expected end marker only, got %s", rec.Body.String())
	}

	up.status.Store(http.StatusInternalServerError)
	req = httptest.NewRequest(http.MethodGet, "/blog/?cursor=p10", nil)
	req.Header.Set("HX-Request", "true")
	rec = do(a, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Retry") {
		t.Errorf("expected retry fragment, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestFeed(t *testing.T) {
	up := newUpstream(t, http.StatusOK, twoPosts)
	a := setupTestApp(t, up, &fakeMailer{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/feed.xml", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<link>https://velog.io/@kimkuns/first</link>") {
		t.Errorf("missing public post in %s", body)
	}
	if strings.Contains(body, "Second") {
		t.Error("private post should be left out")
	}
	if !strings.Contains(body, "<pubDate>Sat, 01 Feb 2025 10:00:00 +0000</pubDate>") {
		t.Errorf("missing pubDate in %s", body)
	}
}

func TestSitemapAndRobots(t *testing.T) {
	a := setupTestApp(t, nil, &fakeMailer{})

	rec := do(a, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	body := rec.Body.String()
	for _, want := range []string{
		"<loc>https://example.com/</loc><changefreq>daily</changefreq><priority>1.0</priority>",
		"<loc>https://example.com/about/</loc><changefreq>weekly</changefreq><priority>0.8</priority>",
		"<loc>https://example.com/contact/</loc><changefreq>monthly</changefreq><priority>0.5</priority>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("sitemap missing %s", want)
		}
	}

	rec = do(a, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	want := "User-agent: *\nAllow: /\nDisallow: /api/\nDisallow: /admin\n\nSitemap: https://example.com/sitemap.xml\n"
	if rec.Body.String() != want {
		t.Errorf("robots.txt = %q, want %q", rec.Body.String(), want)
	}
}

func postContact(a *App, form url.Values, htmx bool) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{
		"name":    form.Get("name"),
		"email":   form.Get("email"),
		"phone":   form.Get("phone"),
		"service": form.Get("service"),
		"message": form.Get("message"),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return do(a, req)
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Hong Gildong"},
		"email":   {"hong@example.com"},
		"message": {"Hello there"},
	}
}

func TestContactSuccess(t *testing.T) {
	m := &fakeMailer{}
	a := setupTestApp(t, nil, m)

	rec := postContact(a, validForm(), false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	got := decodeJSON(t, rec)
	want := map[string]any{"message": "Email sent successfully", "success": true}
	if diff := pretty.Diff(got, want); len(diff) > 0 {
		t.Errorf("response diff: %v", diff)
	}
	if m.count() != 1 {
		t.Fatalf("sent = %d, want 1", m.count())
	}
	msg := m.sent[0]
	if msg.From != "owner@example.com" || msg.ReplyTo != "hong@example.com" {
		t.Errorf("unexpected envelope %# v", pretty.Formatter(msg))
	}
}

func TestContactErrors(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(url.Values)
		mailer     *fakeMailer
		wantStatus int
		wantError  string
	}{
		{"missing name", func(v url.Values) { v.Set("name", "  ") }, &fakeMailer{}, 400, "Required fields are missing"},
		{"missing email", func(v url.Values) { v.Del("email") }, &fakeMailer{}, 400, "Required fields are missing"},
		{"missing message", func(v url.Values) { v.Set("message", "") }, &fakeMailer{}, 400, "Required fields are missing"},
		{"bad email", func(v url.Values) { v.Set("email", "not-an-email") }, &fakeMailer{}, 400, "Invalid email address"},
		{"not configured", func(url.Values) {}, &fakeMailer{unconfigured: true}, 500, "Email service is not configured"},
		{"send failure", func(url.Values) {}, &fakeMailer{err: errors.New("boom")}, 500, "Failed to send email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := setupTestApp(t, nil, tt.mailer)
			form := validForm()
			tt.mutate(form)
			rec := postContact(a, form, false)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			got := decodeJSON(t, rec)
			want := map[string]any{"error": tt.wantError, "success": false}
			if diff := pretty.Diff(got, want); len(diff) > 0 {
				t.Errorf("response diff: %v", diff)
			}
			if tt.mailer.count() != 0 {
				t.Errorf("expected no send")
			}
		})
	}
}

func TestContactRateLimit(t *testing.T) {
	m := &fakeMailer{}
	a := setupTestApp(t, nil, m)

	for i := 0; i < 5; i++ {
		if rec := postContact(a, validForm(), false); rec.Code != http.StatusOK {
			t.Fatalf("send %d: status = %d", i, rec.Code)
		}
	}
	rec := postContact(a, validForm(), false)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if m.count() != 5 {
		t.Errorf("sent = %d, want 5", m.count())
	}
}

func TestContactRateLimitUnderConcurrency(t *testing.T) {
	m := &fakeMailer{delay: 100 * time.Millisecond}
	a := setupTestApp(t, nil, m)

	var wg sync.WaitGroup
	var ok, limited atomic.Int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch rec := postContact(a, validForm(), false); rec.Code {
			case http.StatusOK:
				ok.Add(1)
			case http.StatusTooManyRequests:
				limited.Add(1)
			default:
				t.Errorf("status = %d", rec.Code)
			}
		}()
	}
	wg.Wait()

	if ok.Load() != 5 || limited.Load() != 15 {
		t.Errorf("ok = %d limited = %d, want 5 and 15", ok.Load(), limited.Load())
	}
	if m.count() != 5 {
		t.Errorf("sent = %d, want 5", m.count())
	}
}

func TestContactFailuresKeepQuota(t *testing.T) {
	m := &fakeMailer{}
	a := setupTestApp(t, nil, m)

	bad := validForm()
	bad.Set("email", "not-an-email")
	for i := 0; i < 10; i++ {
		if rec := postContact(a, bad, false); rec.Code != http.StatusBadRequest {
			t.Fatalf("invalid %d: status = %d", i, rec.Code)
		}
	}

	m.err = errors.New("smtp down")
	for i := 0; i < 10; i++ {
		if rec := postContact(a, validForm(), false); rec.Code != http.StatusInternalServerError {
			t.Fatalf("failed send %d: status = %d", i, rec.Code)
		}
	}

	m.err = nil
	for i := 0; i < 5; i++ {
		if rec := postContact(a, validForm(), false); rec.Code != http.StatusOK {
			t.Fatalf("send %d: status = %d", i, rec.Code)
		}
	}
	if rec := postContact(a, validForm(), false); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}

func TestContactMalformedBody(t *testing.T) {
	m := &fakeMailer{}
	a := setupTestApp(t, nil, m)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(a, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	got := decodeJSON(t, rec)
	if got["error"] != "Failed to send email" || got["success"] != false {
		t.Errorf("body = %v", got)
	}
	if m.count() != 0 {
		t.Errorf("sent = %d, want 0", m.count())
	}
}

func TestContactHTMXFragment(t *testing.T) {
	a := setupTestApp(t, nil, &fakeMailer{})

	rec := postContact(a, validForm(), true)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `class="toast success"`) {
		t.Errorf("success fragment: %d %s", rec.Code, rec.Body.String())
	}

	form := validForm()
	form.Set("email", "bad")
	rec = postContact(a, form, true)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Invalid email address") {
		t.Errorf("error fragment: %d %s", rec.Code, rec.Body.String())
	}
}

func TestContactFormRequiresCSRF(t *testing.T) {
	m := &fakeMailer{}
	a := setupTestApp(t, nil, m)

	req := httptest.NewRequest(http.MethodPost, "/contact/", strings.NewReader(validForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(a, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if m.count() != 0 {
		t.Error("expected no send without token")
	}
}

func TestContactFormWithCSRF(t *testing.T) {
	m := &fakeMailer{}
	a := setupTestApp(t, nil, m)

	rec := do(a, httptest.NewRequest(http.MethodGet, "/contact/", nil))
	var token *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "_csrf" {
			token = ck
		}
	}
	if token == nil {
		t.Fatal("expected _csrf cookie")
	}
	if !strings.Contains(rec.Body.String(), `value="`+token.Value+`"`) {
		t.Fatal("expected token in hidden field")
	}

	form := validForm()
	form.Set("_csrf", token.Value)
	req := httptest.NewRequest(http.MethodPost, "/contact/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(token)
	rec = do(a, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if m.count() != 1 {
		t.Errorf("sent = %d, want 1", m.count())
	}
}

func TestThumbnail(t *testing.T) {
	a := setupTestApp(t, nil, &fakeMailer{})

	tests := []struct {
		query string
		width int
	}{
		{"", 640},
		{"?w=300", 320},
		{"?w=641", 960},
		{"?w=99999", 1200}, // 1280 bucket, never upscaled past the 1200px original
	}
	for _, tt := range tests {
		rec := do(a, httptest.NewRequest(http.MethodGet, "/thumbs/portfolio-1.png"+tt.query, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%q: status = %d", tt.query, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("%q: Content-Type = %q", tt.query, ct)
		}
		img, err := jpeg.Decode(rec.Body)
		if err != nil {
			t.Fatalf("%q: decode: %v", tt.query, err)
		}
		if w := img.Bounds().Dx(); w != tt.width {
			t.Errorf("%q: width = %d, want %d", tt.query, w, tt.width)
		}
	}

	for _, name := range []string{"missing.png", "notes.txt", ".hidden.png"} {
		rec := do(a, httptest.NewRequest(http.MethodGet, "/thumbs/"+name, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", name, rec.Code)
		}
	}
}

func TestThumbnailWidthsShareRenderings(t *testing.T) {
	a := setupTestApp(t, nil, &fakeMailer{})

	for w := 1; w <= 200; w++ {
		rec := do(a, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/thumbs/portfolio-1.png?w=%d", w), nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("w=%d: status = %d", w, rec.Code)
		}
	}
	if n := a.thumbs.Len(); n != 1 {
		t.Errorf("renderings = %d, want 1", n)
	}

	for _, q := range []string{"?w=1280", "?w=1201", "?w=99999"} {
		do(a, httptest.NewRequest(http.MethodGet, "/thumbs/portfolio-1.png"+q, nil))
	}
	if n := a.thumbs.Len(); n != 2 {
		t.Errorf("renderings = %d, want 2", n)
	}
}
