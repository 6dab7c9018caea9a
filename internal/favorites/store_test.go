package favorites

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uilibs/internal/catalog"
)

func TestRead(t *testing.T) {
	t.Run("no cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, Read(r))
	})

	t.Run("comma separated ids", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: "a,,b"})

		set := Read(r)
		assert.True(t, set.Contains("a"))
		assert.True(t, set.Contains("b"))
		assert.Len(t, set, 2)
	})
}

func TestWrite_RoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	Write(w, catalog.NewFavoriteSet("z", "a"), true)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.Secure)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(c)
	assert.Equal(t, []string{"a", "z"}, IDs(Read(r)))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("4f1c2a9e-0000-4000-8000-000000000001"))
	assert.False(t, validID(""))
	assert.False(t, validID("a,b"))
	assert.False(t, validID("a b"))
}
