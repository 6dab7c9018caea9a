package library

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"

	"uilibs/internal/catalog"
	"uilibs/internal/logger"
	"uilibs/internal/metrics"
)

// Service provides library-related business logic.
type Service struct {
	repo   Repository
	images ImageStore
	newID  func() string
}

// NewService creates a new library service.
func NewService(repo Repository, images ImageStore) *Service {
	return &Service{repo: repo, images: images, newID: uuid.NewString}
}

// Entries loads the whole collection in the listing engine's shape.
func (s *Service) Entries(ctx context.Context) ([]catalog.Entry, error) {
	libs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	entries := make([]catalog.Entry, len(libs))
	for i, l := range libs {
		entries[i] = l.Entry()
	}
	return entries, nil
}

func (s *Service) List(ctx context.Context) ([]Library, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Library, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new library. The first image becomes the preview and the
// rest the gallery, in submission order.
func (s *Service) Create(ctx context.Context, d Draft, images []Image) (Library, error) {
	if err := checkImages(images); err != nil {
		return Library{}, err
	}

	l := Library{Gallery: []string{}}
	apply(&l, d)

	if len(images) > 0 {
		folder := s.folderFor(d.Name)
		if err := s.clearFolder(ctx, folder); err != nil {
			return Library{}, err
		}
		paths, err := s.upload(ctx, folder, images)
		if err != nil {
			return Library{}, err
		}
		l.Preview = &paths[0]
		l.Gallery = paths[1:]
	}

	if err := s.repo.Create(ctx, &l); err != nil {
		s.removeStored(ctx, storedPaths(l))
		return Library{}, fmt.Errorf("create library: %w", err)
	}
	return l, nil
}

// Update edits an existing library. removeImages drops existing image paths;
// new images replace the preview and are placed ahead of the kept gallery.
func (s *Service) Update(ctx context.Context, id string, d Draft, images []Image, removeImages []string) (Library, error) {
	if err := checkImages(images); err != nil {
		return Library{}, err
	}

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Library{}, err
	}
	apply(&l, d)

	var dropped []string
	for _, p := range removeImages {
		switch {
		case l.Preview != nil && *l.Preview == p:
			l.Preview = nil
			dropped = append(dropped, p)
		case slices.Contains(l.Gallery, p):
			l.Gallery = slices.DeleteFunc(slices.Clone(l.Gallery), func(g string) bool { return g == p })
			dropped = append(dropped, p)
		}
	}

	var uploaded []string
	if len(images) > 0 {
		paths, err := s.upload(ctx, s.folderFor(d.Name), images)
		if err != nil {
			return Library{}, err
		}
		if l.Preview != nil {
			dropped = append(dropped, *l.Preview)
		}
		uploaded = paths
		l.Preview = &paths[0]
		l.Gallery = append(slices.Clone(paths[1:]), l.Gallery...)
	}

	if err := s.repo.Update(ctx, &l); err != nil {
		s.removeStored(ctx, uploaded)
		return Library{}, err
	}

	s.removeStored(ctx, dropped)
	return l, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.removeStored(ctx, storedPaths(l))
	return nil
}

// storedPaths lists every image path a library references.
func storedPaths(l Library) []string {
	paths := slices.Clone(l.Gallery)
	if l.Preview != nil {
		paths = append(paths, *l.Preview)
	}
	return paths
}

func apply(l *Library, d Draft) {
	l.Name = d.Name
	l.Description = d.Description
	l.About = d.About
	l.Author = d.Author
	l.AuthorBio = d.AuthorBio
	l.Website = d.Website
	l.GitHub = d.GitHub
	l.Tags = NormalizeTags(d.Tags)
	l.IsPaid = d.IsPaid
	l.IsMobileFriendly = d.IsMobileFriendly
}

// NormalizeTags trims tags and drops empty and repeated ones, keeping the
// first occurrence order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func checkImages(images []Image) error {
	if len(images) > MaxImages {
		return fmt.Errorf("%w: %d given, at most %d", ErrTooManyImages, len(images), MaxImages)
	}
	for _, img := range images {
		if !strings.HasPrefix(img.ContentType, "image/") {
			return fmt.Errorf("%w: %s", ErrUnsupportedImage, img.Filename)
		}
	}
	return nil
}

// Slug lowercases name and replaces every character outside [a-z0-9] with
// a dash.
func Slug(name string) string {
	b := []byte(strings.ToLower(name))
	for i, c := range b {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			b[i] = '-'
		}
	}
	return string(b)
}

func (s *Service) folderFor(name string) string {
	return "libs/" + Slug(name) + "-" + s.newID()[:8]
}

func (s *Service) clearFolder(ctx context.Context, folder string) error {
	objs, err := s.images.List(ctx, folder)
	if err != nil {
		return fmt.Errorf("list %s: %w", folder, err)
	}
	if len(objs) == 0 {
		return nil
	}
	paths := make([]string, len(objs))
	for i, o := range objs {
		paths[i] = folder + "/" + o.Name
	}
	if err := s.images.Remove(ctx, paths); err != nil {
		return fmt.Errorf("clear %s: %w", folder, err)
	}
	return nil
}

func (s *Service) upload(ctx context.Context, folder string, images []Image) ([]string, error) {
	paths := make([]string, 0, len(images))
	for i, img := range images {
		name := fileName(img.Filename, i)
		p := folder + "/" + name
		if slices.Contains(paths, p) {
			p = fmt.Sprintf("%s/%d-%s", folder, i, name)
		}
		if err := s.images.Upload(ctx, p, img.ContentType, img.Data); err != nil {
			metrics.ImageUploads.WithLabelValues("error").Inc()
			s.removeStored(ctx, paths)
			return nil, fmt.Errorf("upload %s: %w", p, err)
		}
		metrics.ImageUploads.WithLabelValues("ok").Inc()
		paths = append(paths, p)
	}
	return paths, nil
}

// fileName keeps the uploaded base name when it is storage safe.
func fileName(original string, index int) string {
	base := path.Base(strings.ReplaceAll(original, `\`, "/"))
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	if strings.Trim(clean, ".-") == "" {
		return fmt.Sprintf("image-%d", index)
	}
	return clean
}

// removeStored deletes objects we own. A failure leaves orphans in the
// bucket, which is logged rather than surfaced.
func (s *Service) removeStored(ctx context.Context, paths []string) {
	owned := paths[:0:0]
	for _, p := range paths {
		if strings.HasPrefix(p, "libs/") {
			owned = append(owned, p)
		}
	}
	if len(owned) == 0 {
		return
	}
	if err := s.images.Remove(ctx, owned); err != nil {
		logger.For(ctx).WithError(err).WithField("paths", owned).Warn("remove library images")
	}
}
