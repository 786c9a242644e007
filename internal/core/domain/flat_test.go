package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFlatQuery(t *testing.T) {
	t.Run("no city param gives unfiltered top query", func(t *testing.T) {
		query := NewFlatQuery("", false)

		assert.False(t, query.Filtered)
		assert.Equal(t, "", query.City)
		assert.Equal(t, FlatQueryLimit, query.Limit)
	})

	t.Run("city param gives filtered query", func(t *testing.T) {
		query := NewFlatQuery("Berlin", true)

		assert.True(t, query.Filtered)
		assert.Equal(t, "Berlin", query.City)
		assert.Equal(t, FlatQueryLimit, query.Limit)
	})

	t.Run("explicitly empty city param still filters", func(t *testing.T) {
		// "?city=" - параметр присутствует, но пуст: фильтр по пустому городу.
		query := NewFlatQuery("", true)

		assert.True(t, query.Filtered)
		assert.Equal(t, "", query.City)
	})
}

func TestFlatQueryKey(t *testing.T) {
	assert.Equal(t, "all", NewFlatQuery("", false).Key())
	assert.Equal(t, "city:Berlin", NewFlatQuery("Berlin", true).Key())
	assert.Equal(t, "city:", NewFlatQuery("", true).Key())
}
