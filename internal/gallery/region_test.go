package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatch(t *testing.T) {
	tests := []struct {
		name   string
		target Region
		want   []Event
	}{
		{"backdrop closes", RegionBackdrop, []Event{Close{}}},
		{"content is swallowed", RegionContent, nil},
		{"close button closes once", RegionClose, []Event{Close{}}},
		{"unknown region does nothing", Region("footer"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dispatch(tt.target))
		})
	}
}

func TestParseRegion(t *testing.T) {
	r, ok := ParseRegion("content")
	assert.True(t, ok)
	assert.Equal(t, RegionContent, r)

	_, ok = ParseRegion("")
	assert.False(t, ok)
	_, ok = ParseRegion("Backdrop")
	assert.False(t, ok)
}

func TestClick_StopPropagation(t *testing.T) {
	c := &Click{}
	c.Emit(Close{})
	c.StopPropagation()

	assert.True(t, c.stopped)
	assert.Len(t, c.events, 1)
}
