package library

import (
	"errors"
	"time"

	"uilibs/internal/catalog"
)

var (
	// ErrNotFound is returned when a library is not found.
	ErrNotFound = errors.New("library not found")

	ErrTooManyImages    = errors.New("too many images")
	ErrUnsupportedImage = errors.New("only image uploads are accepted")
)

// MaxImages is the most images one submission may carry.
const MaxImages = 5

// Library is a stored UI library listing with its detail-page content.
type Library struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	About            string    `json:"about"`
	Author           string    `json:"author"`
	AuthorBio        string    `json:"author_bio"`
	Website          string    `json:"website,omitempty"`
	GitHub           string    `json:"github,omitempty"`
	Tags             []string  `json:"tags"`
	IsPaid           bool      `json:"is_paid"`
	IsMobileFriendly bool      `json:"is_mobile_friendly"`
	Preview          *string   `json:"preview,omitempty"`
	Gallery          []string  `json:"gallery"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Entry projects the record onto the fields the listing engine works with.
func (l Library) Entry() catalog.Entry {
	return catalog.Entry{
		ID:                l.ID,
		Name:              l.Name,
		Description:       l.Description,
		Author:            l.Author,
		Tags:              l.Tags,
		IsPaid:            l.IsPaid,
		IsMobileFriendly:  l.IsMobileFriendly,
		CreatedAt:         l.CreatedAt,
		PreviewImagePath:  l.Preview,
		GalleryImagePaths: l.Gallery,
	}
}

// Draft holds the admin-editable fields of a library.
type Draft struct {
	Name             string   `json:"name" validate:"required,max=100"`
	Description      string   `json:"description" validate:"required,max=300"`
	About            string   `json:"about" validate:"max=20000"`
	Author           string   `json:"author" validate:"required,max=100"`
	AuthorBio        string   `json:"author_bio" validate:"max=5000"`
	Website          string   `json:"website" validate:"omitempty,url"`
	GitHub           string   `json:"github" validate:"omitempty,url"`
	Tags             []string `json:"tags" validate:"max=20,dive,tag"`
	IsPaid           bool     `json:"is_paid"`
	IsMobileFriendly bool     `json:"is_mobile_friendly"`
}

// Image is one uploaded file.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}
