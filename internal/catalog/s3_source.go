package catalog

import (
	"context"
	"fmt"

	"github.com/ikkim/perfume-storefront/internal/app/model"
)

// ObjectGetter is satisfied by storage.S3Storage.
type ObjectGetter interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

// S3Source reads the catalog object from a bucket.
type S3Source struct {
	objects ObjectGetter
	key     string
}

func NewS3Source(objects ObjectGetter, key string) *S3Source {
	return &S3Source{objects: objects, key: key}
}

func (s *S3Source) Load(ctx context.Context) ([]model.GiftCardRecord, error) {
	data, err := s.objects.GetObject(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	cards, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return cards, nil
}
