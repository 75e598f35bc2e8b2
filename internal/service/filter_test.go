package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKeyDistinguishesFilters(t *testing.T) {
	crafted := ListFilter{Query: "a&category=Dessert"}
	plain := ListFilter{Query: "a", Category: "Dessert"}
	assert.NotEqual(t, crafted.cacheKey(), plain.cacheKey())

	// Normalization: the key ignores case and surrounding whitespace
	assert.Equal(t, ListFilter{Query: " PIE "}.cacheKey(), ListFilter{Query: "pie"}.cacheKey())
	assert.NotEqual(t, ListFilter{FavoriteOnly: true}.cacheKey(), ListFilter{}.cacheKey())
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `corn\_bread`, escapeLike("corn_bread"))
	assert.Equal(t, `back\\slash`, escapeLike(`back\slash`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
