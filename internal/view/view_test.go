package view

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveen44/portfolio/internal/content"
	"github.com/praveen44/portfolio/internal/gallery"
)

func fixedNow() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

func setup(t *testing.T) (*Renderer, *content.Site, Builder) {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	site, err := content.Default()
	require.NoError(t, err)
	b := Builder{
		Fallback: "https://placehold.co/fallback.png",
		Probe:    func(string) bool { return true },
		Now:      fixedNow,
	}
	return r, site, b
}

func render(t *testing.T, r *Renderer, name string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, name, data))
	return buf.String()
}

func TestPage_ClosedGallery(t *testing.T) {
	r, site, b := setup(t)
	g := gallery.New(site.Projects, gallery.Closed())

	html := render(t, r, PageTemplate, b.Page(site, g, false))

	assert.Contains(t, html, "<title>Nuliviti Rohini Portfolio</title>")
	assert.Contains(t, html, `id="project-overlay" data-state="closed"`)
	for _, p := range site.Projects {
		assert.Contains(t, html, `id="card-`+p.Slug+`"`)
	}
	assert.Contains(t, html, "&copy; 2026 A. Praveen")
	assert.Contains(t, html, `data-scrolled="false"`)
	assert.NotContains(t, html, "contact-form")
}

func TestPage_OpenOverlay(t *testing.T) {
	r, site, b := setup(t)
	g := gallery.New(site.Projects, gallery.Open("personal-portfolio-website"))

	html := render(t, r, PageTemplate, b.Page(site, g, false))

	assert.Contains(t, html, `data-state="open" data-project="personal-portfolio-website"`)
	assert.Contains(t, html, `data-region="content"`)
	assert.Contains(t, html, `data-region="close"`)
	assert.Contains(t, html, `href="https://apraveen.vercel.app/profile"`)
	assert.Contains(t, html, "View Code")
	assert.Contains(t, html, "@get('/gallery/click?project=personal-portfolio-website&region='")
}

func TestOverlay_ExitState(t *testing.T) {
	r, site, b := setup(t)
	p, ok := site.Project("image-segmentation-object-detection")
	require.True(t, ok)

	html := render(t, r, OverlayTemplate, b.Exit(p))

	assert.Contains(t, html, `data-state="closing" data-project="image-segmentation-object-detection"`)
	assert.Contains(t, html, `aria-hidden="true"`)
	assert.Contains(t, html, p.Title)
	assert.NotContains(t, html, "/gallery/click", "a closing overlay takes no clicks")
}

func TestPage_MountAndPrivacyLink(t *testing.T) {
	r, site, b := setup(t)
	g := gallery.New(site.Projects, gallery.Closed())

	page := b.Page(site, g, false)
	page.Mount = "0b6c7f8e-1d2a-4c3b-9e4f-5a6b7c8d9e0f"
	html := render(t, r, PageTemplate, page)
	assert.Contains(t, html, `data-mount="0b6c7f8e-1d2a-4c3b-9e4f-5a6b7c8d9e0f"`)
	assert.Contains(t, html, "/header/stream?mount=0b6c7f8e-1d2a-4c3b-9e4f-5a6b7c8d9e0f")
	assert.Contains(t, html, "/header/scroll?mount=0b6c7f8e-1d2a-4c3b-9e4f-5a6b7c8d9e0f&y=")
	assert.NotContains(t, html, `href="/privacy"`)

	b.Privacy = true
	html = render(t, r, PageTemplate, b.Page(site, g, false))
	assert.Contains(t, html, `href="/privacy"`)
}

func TestPrivacyTemplate(t *testing.T) {
	r, site, _ := setup(t)

	html := render(t, r, PrivacyTemplate, PrivacyNotice{Meta: site.Metadata, Name: site.Profile.Name, RetentionMonths: 12})
	assert.Contains(t, html, "<title>Privacy Policy | Nuliviti Rohini Portfolio</title>")
	assert.Contains(t, html, "older than 12 months")
	assert.Contains(t, html, site.Profile.Name)
}

func TestOverlay_PlaceholderLinksAreHidden(t *testing.T) {
	r, site, b := setup(t)
	g := gallery.New(site.Projects, gallery.Open("e-commerce-ui-ux"))

	html := render(t, r, OverlayTemplate, b.Overlay(g))

	assert.Contains(t, html, "E-commerce UI/UX")
	assert.NotContains(t, html, "Live Demo")
	assert.NotContains(t, html, "View Code")
}

func TestPage_RenderIsDeterministic(t *testing.T) {
	r, site, b := setup(t)
	g := gallery.New(site.Projects, gallery.Open("e-commerce-ui-ux"))

	first := render(t, r, PageTemplate, b.Page(site, g, true))
	second := render(t, r, PageTemplate, b.Page(site, g, true))
	assert.Equal(t, first, second)
}

func TestHeader_ScrolledStyle(t *testing.T) {
	r, site, b := setup(t)

	html := render(t, r, HeaderTemplate, b.Header(site, true))
	assert.Contains(t, html, "is-scrolled")
	assert.Contains(t, html, `data-scrolled="true"`)

	html = render(t, r, HeaderTemplate, b.Header(site, false))
	assert.NotContains(t, html, "is-scrolled")
	assert.Contains(t, html, "bg-transparent")
}

func TestBuilder_ImageFallsBackWhenProbeFails(t *testing.T) {
	b := Builder{Fallback: "placeholder", Probe: func(src string) bool { return src != "/images/missing.png" }}

	missing := b.Image("/images/missing.png", "alt", "")
	assert.True(t, missing.FellBack)
	assert.Equal(t, "placeholder", missing.Src)

	present := b.Image("/images/here.png", "alt", "")
	assert.False(t, present.FellBack)
	assert.Equal(t, "/images/here.png", present.Src)

	empty := b.Image("", "alt", "")
	assert.True(t, empty.FellBack)
}

func TestImageTemplate_OneShotOnError(t *testing.T) {
	r, _, b := setup(t)

	html := render(t, r, "image", b.Image("/images/a.png", "A", "c"))
	assert.Contains(t, html, `src="/images/a.png"`)
	assert.Contains(t, html, "this.onerror=null")

	b.Probe = func(string) bool { return false }
	html = render(t, r, "image", b.Image("/images/a.png", "A", "c"))
	assert.Contains(t, html, `src="https://placehold.co/fallback.png"`)
	assert.NotContains(t, html, "onerror", "a fallen-back image never retries")
}

func TestLocalProbe(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0600))
	probe := LocalProbe(dir)

	assert.True(t, probe("/images/a.png"))
	assert.False(t, probe("/images/b.png"))
	assert.False(t, probe("/images/../secret"))
	assert.False(t, probe("/images/"))
	assert.True(t, probe("https://example.com/x.png"))
}

func TestComponent_RendersTemplate(t *testing.T) {
	r, _, _ := setup(t)

	var buf bytes.Buffer
	c := r.Component(ContactStatusTemplate, ContactStatus{Kind: "error", Message: "nope"})
	require.NoError(t, c.Render(context.Background(), &buf))

	html := buf.String()
	assert.True(t, strings.HasPrefix(html, `<div id="contact-status" data-status="error"`))
	assert.Contains(t, html, "nope")
}
