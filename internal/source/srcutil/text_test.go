package srcutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a\n\tb  c  "))
	assert.Equal(t, "", CleanText("   "))
}

func TestStripHTML(t *testing.T) {
	t.Run("plain text passes through", func(t *testing.T) {
		assert.Equal(t, "just text", StripHTML("  just   text "))
	})

	t.Run("tags reduced to visible text", func(t *testing.T) {
		got := StripHTML("<p>Work with <b>SQL</b> &amp; dashboards.</p>")
		assert.Equal(t, "Work with SQL & dashboards.", got)
	})

	t.Run("script and style dropped", func(t *testing.T) {
		got := StripHTML("<style>p{color:red}</style><p>visible</p><script>alert(1)</script>")
		assert.Equal(t, "visible", got)
	})
}
