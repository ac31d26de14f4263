package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ikkim/perfume-storefront/internal/app/model"
	"github.com/ikkim/perfume-storefront/internal/storage"
	"github.com/ikkim/perfume-storefront/pkg/logger"
)

// CartKey is the state slot holding the JSON array of line items.
const CartKey = "cart"

type CartRepository interface {
	// Load returns the stored cart. Missing or malformed state yields an
	// empty cart and no error; only backend failures are returned.
	Load(ctx context.Context, sessionID string) ([]model.LineItem, error)
	Save(ctx context.Context, sessionID string, items []model.LineItem) error
}

type cartRepository struct {
	store storage.Store
}

func NewCartRepository(store storage.Store) CartRepository {
	return &cartRepository{store: store}
}

func (r *cartRepository) Load(ctx context.Context, sessionID string) ([]model.LineItem, error) {
	raw, err := r.store.Get(ctx, storage.SessionKey(sessionID, CartKey))
	if errors.Is(err, storage.ErrNotFound) {
		return []model.LineItem{}, nil
	}
	if err != nil {
		logger.Error("Failed to load cart from state store", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return []model.LineItem{}, err
	}

	var items []model.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		logger.Warn("Discarding malformed cart state", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return []model.LineItem{}, nil
	}
	if items == nil {
		items = []model.LineItem{}
	}

	logger.Debug("Cart loaded from state store", map[string]interface{}{
		"session_id": sessionID,
		"count":      len(items),
	})
	return items, nil
}

func (r *cartRepository) Save(ctx context.Context, sessionID string, items []model.LineItem) error {
	if items == nil {
		items = []model.LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}

	if err := r.store.Set(ctx, storage.SessionKey(sessionID, CartKey), raw); err != nil {
		logger.Error("Failed to save cart to state store", err, map[string]interface{}{
			"session_id": sessionID,
			"count":      len(items),
		})
		return err
	}

	logger.Debug("Cart saved to state store", map[string]interface{}{
		"session_id": sessionID,
		"count":      len(items),
	})
	return nil
}
