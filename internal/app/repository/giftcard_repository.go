package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ikkim/perfume-storefront/internal/app/model"
	"github.com/ikkim/perfume-storefront/internal/storage"
	"github.com/ikkim/perfume-storefront/pkg/logger"
)

// AppliedGiftCardKey is the state slot holding {code, remaining, balance}.
const AppliedGiftCardKey = "applied_giftcard"

type GiftCardRepository interface {
	// Load returns nil when nothing usable is stored.
	Load(ctx context.Context, sessionID string) (*model.AppliedGiftCard, error)
	Save(ctx context.Context, sessionID string, card model.AppliedGiftCard) error
	Clear(ctx context.Context, sessionID string) error
}

type giftCardRepository struct {
	store storage.Store
}

func NewGiftCardRepository(store storage.Store) GiftCardRepository {
	return &giftCardRepository{store: store}
}

func (r *giftCardRepository) Load(ctx context.Context, sessionID string) (*model.AppliedGiftCard, error) {
	raw, err := r.store.Get(ctx, storage.SessionKey(sessionID, AppliedGiftCardKey))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to load applied gift card from state store", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	card, ok := decodeAppliedGiftCard(raw)
	if !ok {
		logger.Warn("Discarding malformed applied gift card state", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, nil
	}
	return card, nil
}

func (r *giftCardRepository) Save(ctx context.Context, sessionID string, card model.AppliedGiftCard) error {
	raw, err := json.Marshal(card)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, storage.SessionKey(sessionID, AppliedGiftCardKey), raw); err != nil {
		logger.Error("Failed to save applied gift card", err, map[string]interface{}{
			"session_id": sessionID,
			"code":       card.Code,
		})
		return err
	}

	logger.Debug("Applied gift card saved", map[string]interface{}{
		"session_id": sessionID,
		"code":       card.Code,
		"remaining":  card.Remaining,
	})
	return nil
}

func (r *giftCardRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.store.Delete(ctx, storage.SessionKey(sessionID, AppliedGiftCardKey)); err != nil {
		logger.Error("Failed to clear applied gift card", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}
	return nil
}

// decodeAppliedGiftCard is field-tolerant: a non-numeric remaining counts as
// "not recorded" and a non-numeric balance as zero. Anything that is not a
// JSON object is unusable.
func decodeAppliedGiftCard(raw []byte) (*model.AppliedGiftCard, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}

	card := &model.AppliedGiftCard{}
	if v, ok := fields["code"]; ok {
		_ = json.Unmarshal(v, &card.Code)
	}
	if v, ok := fields["remaining"]; ok {
		var remaining float64
		if err := json.Unmarshal(v, &remaining); err == nil && string(v) != "null" {
			card.Remaining = &remaining
		}
	}
	if v, ok := fields["balance"]; ok {
		_ = json.Unmarshal(v, &card.Balance)
	}
	return card, true
}
