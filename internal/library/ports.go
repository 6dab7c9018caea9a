package library

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=library

import (
	"context"

	"uilibs/internal/platform/objectstore"
)

// Repository defines the contract for library data storage.
type Repository interface {
	ListAll(ctx context.Context) ([]Library, error)
	GetByID(ctx context.Context, id string) (Library, error)
	Create(ctx context.Context, l *Library) error
	Update(ctx context.Context, l *Library) error
	Delete(ctx context.Context, id string) error
}

// ImageStore is where library screenshots live.
type ImageStore interface {
	Upload(ctx context.Context, path, contentType string, body []byte) error
	List(ctx context.Context, prefix string) ([]objectstore.Object, error)
	Remove(ctx context.Context, paths []string) error
}
