package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/hq"
	"github.com/fwojciec/hq/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts a matched article fragment", func(t *testing.T) {
		t.Parallel()

		html := `<article><h1>Title</h1><p>Visit <a href="https://example.com/p">Example</a>.</p><ul><li>First</li><li>Second</li></ul></article>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "# Title")
		assert.Contains(t, md, "[Example](https://example.com/p)")
		assert.Contains(t, md, "- First")
		assert.Contains(t, md, "- Second")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		html := `<table><thead><tr><th>Name</th><th>Value</th></tr></thead><tbody><tr><td>a</td><td>1</td></tr></tbody></table>`

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "| Name")
		assert.Contains(t, md, "| a")
	})

	t.Run("trims surrounding blank lines", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		md, err := conv.Convert(`<p>Hello, world!</p>`)

		require.NoError(t, err)
		assert.Equal(t, "Hello, world!", md)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.Convert("  ")

		require.Error(t, err)
		assert.Equal(t, hq.EINVALID, hq.ErrorCode(err))
	})
}
