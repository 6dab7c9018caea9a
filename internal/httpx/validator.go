package httpx

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	validate    *validator.Validate
	stripPolicy = bluemonday.StrictPolicy()
)

func init() {
	validate = validator.New()

	// Report fields by their wire name when the struct declares one.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("tag", validateTag)
}

// validateTag rejects tags that would not survive the comma-joined
// query-string encoding of the listing filters.
func validateTag(fl validator.FieldLevel) bool {
	tag := fl.Field().String()
	return tag != "" && len(tag) <= 32 && !strings.ContainsAny(tag, ",\n\r\t")
}

func ValidateStruct(s interface{}) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []ErrorDetail{{Field: "", Message: err.Error()}}
	}

	var details []ErrorDetail
	for _, err := range validationErrors {
		field := err.Field()
		param := err.Param()

		var message string
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "tag":
			message = fmt.Sprintf("%s must be 1-32 characters without commas", field)
		case "uuid":
			message = fmt.Sprintf("%s must be a valid id", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, ErrorDetail{
			Field:   toSnake(field),
			Message: message,
		})
	}

	return details
}

func toSnake(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// maxUnescapeRounds bounds entity decoding of nested encodings like &amp;lt;.
const maxUnescapeRounds = 4

// PlainText strips any markup from user input and trims it. Entities are
// decoded before sanitizing, so encoded tags are stripped like literal ones.
func PlainText(s string) string {
	for i := 0; i < maxUnescapeRounds; i++ {
		u := html.UnescapeString(s)
		if u == s {
			break
		}
		s = u
	}
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}
