package library

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"uilibs/internal/catalog"
	"uilibs/internal/favorites"
	"uilibs/internal/httpx"
	"uilibs/internal/logger"
	"uilibs/internal/metrics"
	"uilibs/internal/platform/objectstore"
)

type HTTPHandler struct {
	service   *Service
	resolver  objectstore.Resolver
	admins    httpx.AdminChecker
	maxUpload int64
}

func NewHTTPHandler(service *Service, resolver objectstore.Resolver, admins httpx.AdminChecker, maxUpload int64) *HTTPHandler {
	return &HTTPHandler{service: service, resolver: resolver, admins: admins, maxUpload: maxUpload}
}

// isAdmin backs the is_admin hint on public responses. A failed lookup is
// logged and treated as not admin; the admin routes enforce it separately.
func (h *HTTPHandler) isAdmin(r *http.Request) bool {
	ok, err := httpx.AdminStatus(r, h.admins)
	if err != nil {
		logger.For(r.Context()).WithError(err).Warn("admin lookup")
		return false
	}
	return ok
}

// entries loads the collection. A failed fetch is logged and the listing
// carries on with nothing in it.
func (h *HTTPHandler) entries(r *http.Request) []catalog.Entry {
	entries, err := h.service.Entries(r.Context())
	if err != nil {
		metrics.EntrySourceFailures.Inc()
		logger.For(r.Context()).WithError(err).Error("load libraries")
		return []catalog.Entry{}
	}
	return entries
}

type entryView struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Author           string    `json:"author"`
	Tags             []string  `json:"tags"`
	IsPaid           bool      `json:"is_paid"`
	IsMobileFriendly bool      `json:"is_mobile_friendly"`
	IsFavorite       bool      `json:"is_favorite"`
	CreatedAt        time.Time `json:"created_at"`
	PreviewURL       string    `json:"preview_url"`
}

// List handles GET /v1/libraries
// @Summary List libraries
// @Description Filter, sort and paginate the catalog. Unknown or malformed parameters fall back to their defaults.
// @Tags libraries
// @Produce json
// @Param search query string false "Whitespace separated terms, all must match"
// @Param sort query string false "newest, oldest, name or author"
// @Param paid query bool false "Include paid libraries"
// @Param free query bool false "Include free libraries"
// @Param mobile query bool false "Only mobile friendly libraries"
// @Param favorites query bool false "Only favorited libraries"
// @Param tags query string false "Comma separated tags, all must be present"
// @Param page query int false "Page number"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/libraries [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	view := catalog.DecodeViewState(r.URL.Query())
	favs := favorites.Read(r)
	entries := h.entries(r)

	sorted := catalog.FilterAndSort(entries, view, favs)
	metrics.CatalogResults.Observe(float64(len(sorted)))
	page := catalog.Paginate(sorted, view.Page, catalog.PageSize)

	items := make([]entryView, len(page.Items))
	for i, e := range page.Items {
		items[i] = entryView{
			ID:               e.ID,
			Name:             e.Name,
			Description:      e.Description,
			Author:           e.Author,
			Tags:             e.Tags,
			IsPaid:           e.IsPaid,
			IsMobileFriendly: e.IsMobileFriendly,
			IsFavorite:       favs.Contains(e.ID),
			CreatedAt:        e.CreatedAt,
			PreviewURL:       h.resolver.URLPtr(e.PreviewImagePath),
		}
	}

	httpx.JSONSuccess(w, r, items, map[string]any{
		"page":        view.Page,
		"page_size":   catalog.PageSize,
		"total":       len(sorted),
		"total_pages": page.TotalPages,
		"start_index": page.StartIndex,
		"end_index":   page.EndIndex,
		"view":        view,
		"facets":      catalog.ComputeFacets(entries),
		"links":       catalog.PageLinks(view, page.TotalPages),
	})
}

// Tags handles GET /v1/libraries/tags
// @Summary List tags
// @Tags libraries
// @Produce json
// @Param q query string false "Case-insensitive substring"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/libraries/tags [get]
func (h *HTTPHandler) Tags(w http.ResponseWriter, r *http.Request) {
	all := catalog.ComputeAllTags(h.entries(r))
	httpx.JSONSuccess(w, r, catalog.FilterTags(all, r.URL.Query().Get("q")), nil)
}

type detailView struct {
	Library
	PreviewURL  string   `json:"preview_url"`
	GalleryURLs []string `json:"gallery_urls"`
	IsFavorite  bool     `json:"is_favorite"`
	IsAdmin     bool     `json:"is_admin"`
}

// Get handles GET /v1/libraries/{id}
// @Summary Library detail
// @Tags libraries
// @Produce json
// @Param id path string true "Library id"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/libraries/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.NotFound(w, r, "Library not found")
		return
	}

	l, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.NotFound(w, r, "Library not found")
			return
		}
		httpx.InternalError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, h.detail(r, l, h.isAdmin(r)), nil)
}

func (h *HTTPHandler) detail(r *http.Request, l Library, isAdmin bool) detailView {
	return detailView{
		Library:     l,
		PreviewURL:  h.resolver.URLPtr(l.Preview),
		GalleryURLs: h.resolver.URLs(l.Gallery),
		IsFavorite:  favorites.Read(r).Contains(l.ID),
		IsAdmin:     isAdmin,
	}
}

// AdminList handles GET /v1/admin/libraries
// @Summary List libraries for the admin dashboard
// @Tags admin
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /v1/admin/libraries [get]
func (h *HTTPHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	libs, err := h.service.List(r.Context())
	if err != nil {
		httpx.InternalError(w, r, err)
		return
	}

	out := make([]detailView, len(libs))
	for i, l := range libs {
		out[i] = h.detail(r, l, true)
	}
	httpx.JSONSuccess(w, r, out, map[string]any{"total": len(out)})
}

// Create handles POST /v1/admin/libraries
// @Summary Create library
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param images formData file false "Up to 5 images, the first is the preview"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /v1/admin/libraries [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	d, images, ok := h.readForm(w, r)
	if !ok {
		return
	}

	l, err := h.service.Create(r.Context(), d, images)
	if err != nil {
		h.writeSaveError(w, r, err)
		return
	}

	logger.For(r.Context()).WithField("library_id", l.ID).Info("library created")
	httpx.JSONCreated(w, r, h.detail(r, l, true))
}

// Update handles PUT /v1/admin/libraries/{id}
// @Summary Update library
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Library id"
// @Param remove_images formData string false "Existing image paths to drop"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/admin/libraries/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.NotFound(w, r, "Library not found")
		return
	}

	d, images, ok := h.readForm(w, r)
	if !ok {
		return
	}

	l, err := h.service.Update(r.Context(), id, d, images, r.MultipartForm.Value["remove_images"])
	if err != nil {
		h.writeSaveError(w, r, err)
		return
	}

	logger.For(r.Context()).WithField("library_id", l.ID).Info("library updated")
	httpx.JSONSuccess(w, r, h.detail(r, l, true), nil)
}

// Delete handles DELETE /v1/admin/libraries/{id}
// @Summary Delete library
// @Tags admin
// @Param id path string true "Library id"
// @Success 204
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/admin/libraries/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.NotFound(w, r, "Library not found")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.NotFound(w, r, "Library not found")
			return
		}
		httpx.InternalError(w, r, err)
		return
	}

	logger.For(r.Context()).WithField("library_id", id).Info("library deleted")
	httpx.JSONNoContent(w)
}

func pathID(r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func (h *HTTPHandler) writeSaveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.NotFound(w, r, "Library not found")
	case errors.Is(err, ErrTooManyImages), errors.Is(err, ErrUnsupportedImage):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", []httpx.ErrorDetail{
			{Field: "images", Message: err.Error()},
		})
	default:
		httpx.InternalError(w, r, err)
	}
}

// readForm parses and validates the multipart admin form. It writes the
// error response itself and reports false when the request is rejected.
func (h *HTTPHandler) readForm(w http.ResponseWriter, r *http.Request) (Draft, []Image, bool) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		httpx.BadRequest(w, r, "Invalid multipart form")
		return Draft{}, nil, false
	}
	form := r.MultipartForm

	get := func(key string) string {
		return httpx.PlainText(first(form.Value[key]))
	}

	tags := form.Value["tags"]
	if len(tags) == 1 && strings.Contains(tags[0], ",") {
		tags = strings.Split(tags[0], ",")
	}
	for i := range tags {
		tags[i] = httpx.PlainText(tags[i])
	}

	d := Draft{
		Name:             get("name"),
		Description:      get("description"),
		About:            strings.TrimSpace(first(form.Value["about"])),
		Author:           get("author"),
		AuthorBio:        strings.TrimSpace(first(form.Value["author_bio"])),
		Website:          get("website"),
		GitHub:           get("github"),
		Tags:             NormalizeTags(tags),
		IsPaid:           formBool(first(form.Value["is_paid"])),
		IsMobileFriendly: formBool(first(form.Value["is_mobile_friendly"])),
	}

	if validationErrors := httpx.ValidateStruct(d); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return Draft{}, nil, false
	}

	files := form.File["images"]
	if len(files) > MaxImages {
		h.writeSaveError(w, r, ErrTooManyImages)
		return Draft{}, nil, false
	}

	images := make([]Image, 0, len(files))
	for _, fh := range files {
		img, err := readImage(fh)
		if err != nil {
			httpx.BadRequest(w, r, "Unreadable image upload")
			return Draft{}, nil, false
		}
		images = append(images, img)
	}
	return d, images, true
}

func readImage(fh *multipart.FileHeader) (Image, error) {
	f, err := fh.Open()
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Image{}, err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return Image{Filename: fh.Filename, ContentType: contentType, Data: data}, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func formBool(s string) bool {
	if s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
