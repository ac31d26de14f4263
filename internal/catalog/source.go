package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ikkim/perfume-storefront/internal/app/model"
)

var (
	// ErrCatalogUnavailable wraps every failure to obtain the catalog document.
	ErrCatalogUnavailable = errors.New("unable to load gift cards")

	// ErrCatalogMalformed is returned when the document is neither a list of
	// cards nor an object with a "cards" list.
	ErrCatalogMalformed = errors.New("gift card catalog is malformed")
)

// Source fetches the full gift card catalog. Implementations must not cache:
// every call reflects the published document at that moment.
type Source interface {
	Load(ctx context.Context) ([]model.GiftCardRecord, error)
}

type wrappedCatalog struct {
	Cards []model.GiftCardRecord `json:"cards"`
}

// Decode accepts either a bare JSON array of records or {"cards": [...]}.
// A wrapper object without a cards field decodes to an empty catalog.
func Decode(data []byte) ([]model.GiftCardRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrCatalogMalformed
	}

	switch trimmed[0] {
	case '[':
		var cards []model.GiftCardRecord
		if err := json.Unmarshal(trimmed, &cards); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogMalformed, err)
		}
		return cards, nil
	case '{':
		var wrapped wrappedCatalog
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogMalformed, err)
		}
		if wrapped.Cards == nil {
			return []model.GiftCardRecord{}, nil
		}
		return wrapped.Cards, nil
	default:
		return nil, ErrCatalogMalformed
	}
}

// Find returns the first active record matching code, ignoring case.
func Find(cards []model.GiftCardRecord, code string) (model.GiftCardRecord, bool) {
	for _, card := range cards {
		if card.Matches(code) && card.IsActive() {
			return card, true
		}
	}
	return model.GiftCardRecord{}, false
}
