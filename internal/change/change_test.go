package change_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-mod.ewintr.nl/stockwatch/internal/change"
)

const url = "https://example.com/men"

func TestObserve(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 4, 0, 0, time.UTC)
	d := change.NewDetector(change.WithClock(func() time.Time { return now }))

	t.Run("baseline", func(t *testing.T) {
		_, ok := d.Observe(url, 12)
		assert.False(t, ok)

		st, ok := d.Last(url)
		assert.True(t, ok)
		assert.Equal(t, change.State{Total: 12, Seen: now}, st)
	})

	t.Run("no change", func(t *testing.T) {
		_, ok := d.Observe(url, 12)
		assert.False(t, ok)
	})

	t.Run("change", func(t *testing.T) {
		ev, ok := d.Observe(url, 15)
		assert.True(t, ok)
		assert.Equal(t, change.Event{URL: url, Previous: 12, Current: 15, At: now}, ev)
	})

	t.Run("state updated", func(t *testing.T) {
		_, ok := d.Observe(url, 15)
		assert.False(t, ok)
	})

	t.Run("drop to zero", func(t *testing.T) {
		ev, ok := d.Observe(url, 0)
		assert.True(t, ok)
		assert.Equal(t, 15, ev.Previous)
		assert.Equal(t, 0, ev.Current)
	})
}

func TestObserveBaselineIgnoresValue(t *testing.T) {
	for _, total := range []int{0, 1, 500} {
		d := change.NewDetector()
		_, ok := d.Observe(url, total)
		assert.False(t, ok)
	}
}

func TestObserveKeyedPerURL(t *testing.T) {
	d := change.NewDetector()
	d.Observe("a", 1)
	_, ok := d.Observe("b", 2)
	assert.False(t, ok)

	_, ok = d.Last("c")
	assert.False(t, ok)
}
