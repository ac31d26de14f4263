package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/ikkim/perfume-storefront/internal/app/model"
)

// FileSource reads the catalog from disk on every call.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) Load(_ context.Context) ([]model.GiftCardRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	cards, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return cards, nil
}
