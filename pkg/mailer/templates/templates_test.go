package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	data := map[string]any{"Name": "Jane", "Email": "jane@ex.com"}

	t.Run("welcome", func(t *testing.T) {
		subject, text, html, err := Render(Welcome, data)
		assert.NoError(t, err)
		assert.Equal(t, "Welcome to bookMandala", subject)
		assert.Contains(t, text, "jane@ex.com")
		assert.Contains(t, html, "Hi Jane")
		assert.Contains(t, html, "jane@ex.com")
	})

	t.Run("password changed", func(t *testing.T) {
		subject, text, html, err := Render(PasswordChanged, data)
		assert.NoError(t, err)
		assert.Equal(t, "Your password was changed", subject)
		assert.Contains(t, text, "contact support")
		assert.Contains(t, html, "jane@ex.com")
	})

	t.Run("unknown template", func(t *testing.T) {
		_, _, _, err := Render("nope", data)
		assert.Error(t, err)
	})

	t.Run("html escaping", func(t *testing.T) {
		_, _, html, err := Render(Welcome, map[string]any{"Name": "<script>", "Email": "jane@ex.com"})
		assert.NoError(t, err)
		assert.NotContains(t, html, "<script>")
	})
}
