package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testForm struct {
	Name    string   `validate:"required,max=10"`
	Website string   `validate:"omitempty,url"`
	Tags    []string `validate:"dive,tag"`
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(testForm{Name: "Fluent", Website: "https://example.com", Tags: []string{"Dark"}})
	assert.Empty(t, errs)
}

func TestValidateStruct_Messages(t *testing.T) {
	errs := ValidateStruct(testForm{Website: "not a url", Tags: []string{"a,b"}})
	assert.Len(t, errs, 3)

	byField := map[string]string{}
	for _, e := range errs {
		byField[e.Field] = e.Message
	}
	assert.Equal(t, "Name is required", byField["name"])
	assert.Equal(t, "Website must be a valid URL", byField["website"])
	assert.Contains(t, byField["tags[0]"], "without commas")
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Fluent", PlainText("  <b>Fluent</b> "))
	assert.Equal(t, "Tom & Jerry", PlainText("Tom & Jerry"))
	assert.Equal(t, "", PlainText("<script>alert(1)</script>"))

	t.Run("encoded markup is stripped too", func(t *testing.T) {
		assert.Equal(t, "x", PlainText("&lt;b&gt;x&lt;/b&gt;"))
		assert.Equal(t, "x", PlainText("&amp;lt;b&amp;gt;x&amp;lt;/b&amp;gt;"))
		assert.Equal(t, "", PlainText("&lt;script&gt;alert(1)&lt;/script&gt;"))
		assert.NotContains(t, PlainText("&#60;img src=x onerror=alert(1)&#62;hi"), "<")
	})

	t.Run("comparison text survives", func(t *testing.T) {
		assert.Equal(t, "a < b", PlainText("a &lt; b"))
	})
}
