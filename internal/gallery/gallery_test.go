package gallery

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveen44/portfolio/internal/content"
)

func testProjects() []content.Project {
	return []content.Project{
		{Slug: "p1", Title: "P1"},
		{Slug: "p2", Title: "P2"},
		{Slug: "p3", Title: "P3"},
	}
}

func TestReduce_Transitions(t *testing.T) {
	tests := []struct {
		name  string
		from  State
		event Event
		want  State
	}{
		{"closed select", Closed(), Select{Slug: "p1"}, Open("p1")},
		{"open close", Open("p1"), Close{}, Closed()},
		{"open select other", Open("p1"), Select{Slug: "p2"}, Open("p2")},
		{"open select same", Open("p1"), Select{Slug: "p1"}, Open("p1")},
		{"closed close", Closed(), Close{}, Closed()},
		{"empty select ignored", Open("p1"), Select{}, Open("p1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.from, tt.event)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Reduce() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// expected computes the last Select not followed by a Close.
func expected(events []Event) State {
	want := Closed()
	for _, e := range events {
		switch e := e.(type) {
		case Select:
			want = Open(e.Slug)
		case Close:
			want = Closed()
		}
	}
	return want
}

func TestReplay_MatchesLastSelectNotFollowedByClose(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	slugs := []string{"p1", "p2", "p3"}

	for i := 0; i < 500; i++ {
		n := r.IntN(12)
		events := make([]Event, n)
		for j := range events {
			if r.IntN(3) == 0 {
				events[j] = Close{}
			} else {
				events[j] = Select{Slug: slugs[r.IntN(len(slugs))]}
			}
		}
		if diff := cmp.Diff(expected(events), Replay(events...)); diff != "" {
			t.Fatalf("Replay(%v) mismatch (-want +got):\n%s", events, diff)
		}
	}
}

func TestReplay_Empty(t *testing.T) {
	assert.False(t, Replay().IsOpen())
}

func TestReduce_ReselectNeverPassesThroughClosed(t *testing.T) {
	s := Open("p1")
	next := Reduce(s, Select{Slug: "p2"})
	assert.True(t, next.IsOpen())
	assert.Equal(t, "p2", next.Slug())
}

func TestGallery_Scenario(t *testing.T) {
	g := New(testProjects(), Closed())
	assert.Equal(t, "Closed", g.State().String())

	require.NoError(t, g.Select("p2"))
	assert.Equal(t, "Open(p2)", g.State().String())

	require.NoError(t, g.Select("p1"))
	assert.Equal(t, "Open(p1)", g.State().String())

	assert.True(t, g.Click(RegionBackdrop))
	assert.Equal(t, "Closed", g.State().String())
}

func TestGallery_SelectUnknown(t *testing.T) {
	g := New(testProjects(), Open("p3"))

	err := g.Select("nope")
	require.ErrorIs(t, err, ErrUnknownProject)
	assert.Equal(t, Open("p3"), g.State())
}

func TestGallery_RestoreDropsStaleSelection(t *testing.T) {
	g := New(testProjects(), Open("removed"))
	assert.False(t, g.State().IsOpen())

	_, ok := g.Selected()
	assert.False(t, ok)
}

func TestGallery_Selected(t *testing.T) {
	g := New(testProjects(), Open("p2"))

	p, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, "P2", p.Title)

	g.Close()
	_, ok = g.Selected()
	assert.False(t, ok)
}

func TestGallery_ClickInsideContentKeepsOverlayOpen(t *testing.T) {
	g := New(testProjects(), Open("p1"))

	assert.False(t, g.Click(RegionContent))
	assert.Equal(t, Open("p1"), g.State())
}

func TestGallery_CloseButton(t *testing.T) {
	g := New(testProjects(), Open("p1"))

	assert.True(t, g.Click(RegionClose))
	assert.False(t, g.State().IsOpen())
}

func TestGallery_ClickWhileClosed(t *testing.T) {
	g := New(testProjects(), Closed())

	assert.False(t, g.Click(RegionBackdrop))
	assert.False(t, g.State().IsOpen())
}
