package web

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/praveen44/portfolio/internal/content"
	"github.com/praveen44/portfolio/internal/gallery"
	"github.com/praveen44/portfolio/internal/scroll"
	"github.com/praveen44/portfolio/internal/tracking"
	"github.com/praveen44/portfolio/internal/view"
)

const (
	contactSuccess = "Thank you for your message! I'll get back to you soon."
	contactFailure = "Sorry, there was an error sending your message. Please try again later."
)

// index renders the full page. Each load is a new mount with its own id
// and a fresh gallery, optionally opened on ?project=slug.
func (s *Server) index(c *gin.Context) {
	site := s.content.Current()
	v := s.visitor(c)

	g := gallery.New(site.Projects, gallery.Closed())
	if slug := c.Query("project"); slug != "" {
		if err := g.Select(slug); err != nil {
			s.logger.Debug("ignoring deep link", "slug", slug, "error", err)
		} else {
			s.trackProjectView(c, slug)
		}
	}

	if err := s.save(c, v); err != nil {
		s.logger.Warn("failed to save session", "error", err)
	}

	page := s.builder().Page(site, g, false)
	page.Mount = uuid.NewString()
	c.HTML(http.StatusOK, view.PageTemplate, page)
}

// mounted rebuilds the gallery of the page a request came from. The open
// overlay sends its project along, so every page instance carries its own
// selection and nothing is shared between tabs.
func (s *Server) mounted(c *gin.Context) (*content.Site, *gallery.Gallery) {
	site := s.content.Current()
	return site, gallery.New(site.Projects, gallery.Open(c.Query("project")))
}

func (s *Server) gallerySelect(c *gin.Context) {
	site, g := s.mounted(c)
	prev := g.State()
	slug := c.Param("slug")

	if err := g.Select(slug); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	s.trackProjectView(c, slug)
	s.patchOverlay(c, site, prev, g)
}

// galleryClick receives the innermost region a click landed on and bubbles
// it through the overlay. Clicks that leave the state alone patch nothing.
func (s *Server) galleryClick(c *gin.Context) {
	site, g := s.mounted(c)
	prev := g.State()

	region, ok := gallery.ParseRegion(c.Query("region"))
	if !ok || !g.Click(region) {
		datastar.NewSSE(c.Writer, c.Request)
		return
	}
	s.patchOverlay(c, site, prev, g)
}

func (s *Server) galleryClose(c *gin.Context) {
	site, g := s.mounted(c)
	prev := g.State()
	g.Close()
	s.patchOverlay(c, site, prev, g)
}

// patchOverlay sends the overlay for g's state. Leaving Open renders the
// closed project once more in its exit state.
func (s *Server) patchOverlay(c *gin.Context, site *content.Site, prev gallery.State, g *gallery.Gallery) {
	b := s.builder()
	overlay := b.Overlay(g)
	if prev.IsOpen() && !g.State().IsOpen() {
		if p, ok := site.Project(prev.Slug()); ok {
			overlay = b.Exit(p)
		}
	}

	sse := datastar.NewSSE(c.Writer, c.Request)
	if err := sse.PatchElementTempl(s.renderer.Component(view.OverlayTemplate, overlay)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// headerStream holds one SSE connection per mounted page and patches the
// header whenever that page's scroll position crosses the threshold.
// The subscription ends with the connection.
func (s *Server) headerStream(c *gin.Context) {
	mount, ok := parseMount(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mount"})
		return
	}
	v := s.visitor(c)
	if err := s.save(c, v); err != nil {
		s.logger.Error("failed to save session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return
	}

	sse := datastar.NewSSE(c.Writer, c.Request)
	toggle := scroll.NewToggle(s.cfg.Header.Threshold)
	err := toggle.Watch(c.Request.Context(), s.bus, mountKey(v.id, mount), func(past bool) error {
		header := s.builder().Header(s.content.Current(), past)
		return sse.PatchElementTempl(s.renderer.Component(view.HeaderTemplate, header))
	})
	if err != nil {
		s.logger.Debug("header stream closed", "error", err)
	}
}

func (s *Server) headerScroll(c *gin.Context) {
	mount, ok := parseMount(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mount"})
		return
	}
	y, err := strconv.ParseFloat(c.Query("y"), 64)
	if err != nil || math.IsNaN(y) || math.IsInf(y, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scroll position"})
		return
	}

	v := s.visitor(c)
	s.bus.Publish(mountKey(v.id, mount), y)
	c.Status(http.StatusNoContent)
}

func (s *Server) privacy(c *gin.Context) {
	site := s.content.Current()
	c.HTML(http.StatusOK, view.PrivacyTemplate, view.PrivacyNotice{
		Meta:            site.Metadata,
		Name:            site.Profile.Name,
		RetentionMonths: int(tracking.Retention.Hours() / 24 / 30),
	})
}

func (s *Server) contact(c *gin.Context) {
	msg := ContactMessage{
		Name:    strings.TrimSpace(c.PostForm("fullName")),
		Email:   strings.TrimSpace(c.PostForm("email")),
		Message: strings.TrimSpace(c.PostForm("message")),
	}

	status := view.ContactStatus{Kind: "success", Message: contactSuccess}
	switch err := msg.Validate(); {
	case err != nil:
		status = view.ContactStatus{Kind: "error", Message: err.Error()}
	case s.mailer == nil:
		s.logger.Warn("contact form submitted but SMTP is not configured")
		status = view.ContactStatus{Kind: "error", Message: contactFailure}
	default:
		if err := s.mailer.Send(msg); err != nil {
			s.logger.Error("failed to send contact email", "error", err)
			status = view.ContactStatus{Kind: "error", Message: contactFailure}
		}
	}

	sse := datastar.NewSSE(c.Writer, c.Request)
	if err := sse.PatchElementTempl(s.renderer.Component(view.ContactStatusTemplate, status)); err != nil {
		_ = sse.ConsoleError(err)
	}
}
