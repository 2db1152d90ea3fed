package bucket_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mod.ewintr.nl/stockwatch/internal/bucket"
)

func TestLabel(t *testing.T) {
	table := bucket.Default()
	for _, tc := range []struct {
		name  string
		price int
		exp   string
		ok    bool
	}{
		{name: "zero", price: 0, exp: "Below ₹500", ok: true},
		{name: "below 500", price: 450, exp: "Below ₹500", ok: true},
		{name: "lower bound inclusive", price: 500, exp: "₹500–₹1000", ok: true},
		{name: "upper bound exclusive", price: 999, exp: "₹500–₹1000", ok: true},
		{name: "middle", price: 1500, exp: "₹1000–₹2000", ok: true},
		{name: "last bucket", price: 2999, exp: "₹2000–₹3000", ok: true},
		{name: "ceiling", price: 3000, ok: false},
		{name: "above all", price: 3500, ok: false},
		{name: "negative", price: -1, ok: false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			label, ok := table.Label(tc.price)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.exp, label)
		})
	}
}

func TestAggregate(t *testing.T) {
	table := bucket.Default()

	t.Run("out of range dropped", func(t *testing.T) {
		act := table.Aggregate([]int{450, 1500, 3500})
		assert.Equal(t, []bucket.Count{
			{Label: "Below ₹500", Count: 1},
			{Label: "₹1000–₹2000", Count: 1},
		}, act)
	})

	t.Run("first seen order", func(t *testing.T) {
		act := table.Aggregate([]int{2500, 100, 2100, 600, 150})
		assert.Equal(t, []bucket.Count{
			{Label: "₹2000–₹3000", Count: 2},
			{Label: "Below ₹500", Count: 2},
			{Label: "₹500–₹1000", Count: 1},
		}, act)
	})

	t.Run("out of range first", func(t *testing.T) {
		act := table.Aggregate([]int{5000, 700})
		assert.Equal(t, []bucket.Count{{Label: "₹500–₹1000", Count: 1}}, act)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, table.Aggregate(nil))
	})
}

func TestValidate(t *testing.T) {
	require.NoError(t, bucket.Default().Validate())

	for _, tc := range []struct {
		name  string
		table bucket.Table
	}{
		{name: "empty", table: bucket.Table{}},
		{name: "inverted", table: bucket.Table{{Low: 10, High: 5}}},
		{name: "zero width", table: bucket.Table{{Low: 5, High: 5}}},
		{name: "overlap", table: bucket.Table{{Low: 0, High: 100}, {Low: 50, High: 200}}},
		{name: "unordered", table: bucket.Table{{Low: 100, High: 200}, {Low: 0, High: 100}}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.table.Validate(), bucket.ErrInvalidTable)
		})
	}
}
