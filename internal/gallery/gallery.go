// Package gallery implements the project gallery's selection state: which
// project, if any, has its detail overlay open.
package gallery

import (
	"errors"
	"fmt"

	"github.com/praveen44/portfolio/internal/content"
)

// ErrUnknownProject is returned when selecting a slug the gallery does not hold.
var ErrUnknownProject = errors.New("unknown project")

// State is either Closed or Open(slug). The zero value is Closed.
type State struct {
	slug string
}

// Closed returns the state with no overlay.
func Closed() State { return State{} }

// Open returns the state with the given project's overlay shown.
func Open(slug string) State { return State{slug: slug} }

// IsOpen reports whether an overlay is shown.
func (s State) IsOpen() bool { return s.slug != "" }

// Slug is the selected project's slug, empty when closed.
func (s State) Slug() string { return s.slug }

// Equal reports whether both states select the same project.
func (s State) Equal(o State) bool { return s.slug == o.slug }

func (s State) String() string {
	if !s.IsOpen() {
		return "Closed"
	}
	return fmt.Sprintf("Open(%s)", s.slug)
}

// Event is a user intent that may change the selection.
type Event interface {
	isEvent()
}

// Select opens the overlay for a project, replacing any current selection.
type Select struct {
	Slug string
}

// Close dismisses the overlay.
type Close struct{}

func (Select) isEvent() {}
func (Close) isEvent()  {}

// Reduce computes the next state. Selecting while open replaces the
// selection directly; there is no intermediate Closed state.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case Select:
		if e.Slug == "" {
			return s
		}
		return Open(e.Slug)
	case Close:
		return Closed()
	}
	return s
}

// Replay folds events over the initial Closed state.
func Replay(events ...Event) State {
	s := Closed()
	for _, e := range events {
		s = Reduce(s, e)
	}
	return s
}

// Gallery binds the selection state to a list of projects.
type Gallery struct {
	projects []content.Project
	state    State
}

// New creates a gallery restored to state. A state naming a project that no
// longer exists is treated as Closed.
func New(projects []content.Project, state State) *Gallery {
	g := &Gallery{projects: projects}
	if state.IsOpen() {
		if _, ok := g.find(state.slug); ok {
			g.state = state
		}
	}
	return g
}

// Projects returns the projects in display order.
func (g *Gallery) Projects() []content.Project {
	return g.projects
}

// State returns the current selection state.
func (g *Gallery) State() State {
	return g.state
}

// Apply runs one event through Reduce. Selecting an unknown project fails
// and leaves the state untouched.
func (g *Gallery) Apply(e Event) error {
	if sel, ok := e.(Select); ok {
		if _, found := g.find(sel.Slug); !found {
			return fmt.Errorf("%w: %q", ErrUnknownProject, sel.Slug)
		}
	}
	g.state = Reduce(g.state, e)
	return nil
}

// Select opens the overlay for slug.
func (g *Gallery) Select(slug string) error {
	return g.Apply(Select{Slug: slug})
}

// Close dismisses the overlay.
func (g *Gallery) Close() {
	g.state = Reduce(g.state, Close{})
}

// Click dispatches a click on an overlay region and applies whatever events
// survive propagation. It reports whether the state changed.
func (g *Gallery) Click(target Region) bool {
	before := g.state
	for _, e := range Dispatch(target) {
		// Region handlers never emit Select, so Apply cannot fail here.
		_ = g.Apply(e)
	}
	return g.state != before
}

// Selected returns the open project.
func (g *Gallery) Selected() (content.Project, bool) {
	if !g.state.IsOpen() {
		return content.Project{}, false
	}
	return g.find(g.state.slug)
}

func (g *Gallery) find(slug string) (content.Project, bool) {
	for _, p := range g.projects {
		if p.Slug == slug {
			return p, true
		}
	}
	return content.Project{}, false
}
