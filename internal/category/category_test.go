package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-mod.ewintr.nl/stockwatch/internal/category"
)

func TestAdd(t *testing.T) {
	r := category.NewRegistry()
	assert.True(t, r.Add("https://a"))
	assert.True(t, r.Add("https://b"))
	assert.False(t, r.Add("https://a"))
	assert.True(t, r.Add("https://A"))

	assert.Equal(t, []string{"https://a", "https://b", "https://A"}, r.List())
	assert.Equal(t, 3, r.Len())
}

func TestNewRegistryDedups(t *testing.T) {
	r := category.NewRegistry("x", "y", "x")
	assert.Equal(t, []string{"x", "y"}, r.List())
}

func TestListIsCopy(t *testing.T) {
	r := category.NewRegistry("x")
	l := r.List()
	l[0] = "changed"
	assert.Equal(t, []string{"x"}, r.List())
}

func TestEmptyList(t *testing.T) {
	assert.Empty(t, category.NewRegistry().List())
}

func TestRemove(t *testing.T) {
	r := category.NewRegistry("a", "b", "c")

	url, err := r.Remove(2)
	require.NoError(t, err)
	assert.Equal(t, "b", url)
	assert.Equal(t, []string{"a", "c"}, r.List())

	for _, idx := range []int{0, -1, 3} {
		_, err := r.Remove(idx)
		assert.ErrorIs(t, err, category.ErrOutOfRange)
	}
	assert.Equal(t, 2, r.Len())
}
