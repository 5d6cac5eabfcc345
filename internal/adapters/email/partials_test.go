package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartialStore(t *testing.T) {
	store := NewPartialStore()

	t.Run("loads embedded skin partials", func(t *testing.T) {
		for _, path := range []string{
			"widgets/articleStart",
			"widgets/articleEnd",
			"minty/contentStart",
			"minty/contentEnd",
			"minty/button",
			"sunny/heading",
			"sunny/contentStart",
			"sunny/contentEnd",
			"sunny/button",
			"ark/heading",
			"ark/contentStart",
			"ark/contentEnd",
		} {
			raw, err := store.Partial(path)
			require.NoError(t, err, path)
			assert.NotEmpty(t, raw, path)
		}
	})

	t.Run("unknown partial returns an error", func(t *testing.T) {
		_, err := store.Partial("minty/missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		_, err := store.Partial("../go.mod")
		require.Error(t, err)
	})
}
