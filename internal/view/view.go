// Package view turns content and interaction state into the page's render
// model and renders it with the embedded templates.
package view

import (
	"context"
	"embed"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/praveen44/portfolio/internal/content"
	"github.com/praveen44/portfolio/internal/gallery"
	"github.com/praveen44/portfolio/internal/imagefallback"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultDatastarSrc is the client runtime for element and signal patches.
const DefaultDatastarSrc = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Template names.
const (
	PageTemplate          = "page"
	HeaderTemplate        = "header"
	OverlayTemplate       = "overlay"
	ContactStatusTemplate = "contact-status"
	PrivacyTemplate       = "privacy"
)

// Renderer executes the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"join": strings.Join,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Template exposes the parsed set, e.g. for gin's SetHTMLTemplate.
func (r *Renderer) Template() *template.Template {
	return r.tmpl
}

// Render writes the named template.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// Component wraps a template as a templ.Component so it can be streamed
// as an element patch.
func (r *Renderer) Component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return r.tmpl.ExecuteTemplate(w, name, data)
	})
}

// Probe reports whether an image reference can be loaded.
type Probe func(src string) bool

// LocalProbe checks /images/... references against dir. Other references
// are assumed loadable and left to the browser's one-shot onerror.
func LocalProbe(dir string) Probe {
	return func(src string) bool {
		rest, ok := strings.CutPrefix(src, "/images/")
		if !ok {
			return true
		}
		if rest == "" || strings.Contains(rest, "..") {
			return false
		}
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rest)))
		return err == nil && !info.IsDir()
	}
}

// Builder assembles render models. The same inputs always produce the same model.
type Builder struct {
	Fallback    string
	DatastarSrc string
	ContactForm bool
	Privacy     bool
	Probe       Probe
	Now         func() time.Time
}

// Image is one rendered image instance.
type Image struct {
	Src      string
	Fallback string
	Alt      string
	Class    string
	FellBack bool
}

// Header is the scroll-aware site header.
type Header struct {
	Name      string
	Nav       []content.NavLink
	ResumeURL string
	Scrolled  bool
}

// Card is a gallery card.
type Card struct {
	Project content.Project
	Image   Image
}

// Overlay is the detail view of the selected project, if any. Closing
// renders the project that was just deselected so it can animate out.
type Overlay struct {
	Open    bool
	Closing bool
	Project content.Project
	Image   Image
}

// ContactStatus is the result line under the contact form.
type ContactStatus struct {
	Kind    string
	Message string
}

// Page is the full render model.
type Page struct {
	Meta          content.Metadata
	Site          *content.Site
	Header        Header
	Portrait      Image
	Cards         []Card
	Overlay       Overlay
	ContactForm   bool
	ContactStatus ContactStatus
	Privacy       bool
	DatastarSrc   string
	Mount         string
	Year          int
}

// PrivacyNotice is the standalone privacy page shown when visits are recorded.
type PrivacyNotice struct {
	Meta            content.Metadata
	Name            string
	RetentionMonths int
}

// Image resolves one image instance. A primary the probe rejects is failed
// before rendering, so the page ships the fallback directly.
func (b Builder) Image(src, alt, class string) Image {
	img := imagefallback.New(src, b.Fallback)
	if src == "" || (b.Probe != nil && !b.Probe(src)) {
		img.Fail()
	}
	return Image{
		Src:      img.Src(),
		Fallback: img.Fallback(),
		Alt:      alt,
		Class:    class,
		FellBack: img.FellBack(),
	}
}

// Header builds the header model.
func (b Builder) Header(site *content.Site, scrolled bool) Header {
	return Header{
		Name:      site.Profile.Name,
		Nav:       site.Nav,
		ResumeURL: site.Profile.ResumeURL,
		Scrolled:  scrolled,
	}
}

// Overlay builds the overlay model for the gallery's current selection.
func (b Builder) Overlay(g *gallery.Gallery) Overlay {
	p, ok := g.Selected()
	if !ok {
		return Overlay{}
	}
	return Overlay{
		Open:    true,
		Project: p,
		Image:   b.Image(p.Image, p.Title, "w-full h-full object-cover rounded-t-lg"),
	}
}

// Exit builds the overlay for a project that was just closed.
func (b Builder) Exit(p content.Project) Overlay {
	return Overlay{
		Closing: true,
		Project: p,
		Image:   b.Image(p.Image, p.Title, "w-full h-full object-cover rounded-t-lg"),
	}
}

// Page builds the full page model.
func (b Builder) Page(site *content.Site, g *gallery.Gallery, scrolled bool) Page {
	cards := make([]Card, 0, len(g.Projects()))
	for _, p := range g.Projects() {
		cards = append(cards, Card{
			Project: p,
			Image:   b.Image(p.Image, p.Title, "w-full h-full object-cover transition-transform duration-500 group-hover:scale-110"),
		})
	}

	datastarSrc := b.DatastarSrc
	if datastarSrc == "" {
		datastarSrc = DefaultDatastarSrc
	}
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	return Page{
		Meta:        site.Metadata,
		Site:        site,
		Header:      b.Header(site, scrolled),
		Portrait:    b.Image(site.Profile.Portrait, "A portrait of "+site.Profile.Name, "w-full h-full object-cover"),
		Cards:       cards,
		Overlay:     b.Overlay(g),
		ContactForm: b.ContactForm,
		Privacy:     b.Privacy,
		DatastarSrc: datastarSrc,
		Year:        now().Year(),
	}
}
