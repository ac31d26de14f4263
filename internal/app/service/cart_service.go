package service

import (
	"context"
	"fmt"

	"github.com/ikkim/perfume-storefront/internal/app/model"
	"github.com/ikkim/perfume-storefront/internal/app/repository"
	"github.com/ikkim/perfume-storefront/pkg/logger"
)

type CartService interface {
	GetCart(ctx context.Context, sessionID string) []model.LineItem
	LoadCart(ctx context.Context, sessionID string) ([]model.LineItem, error)
	SaveCart(ctx context.Context, sessionID string, items []model.LineItem) ([]Effect, error)
	AddToCart(ctx context.Context, sessionID, name string, price float64) (*AddToCartResult, error)
	CartCount(ctx context.Context, sessionID string) int
}

type AddToCartResult struct {
	Items   []model.LineItem `json:"items"`
	Count   int              `json:"count"`
	Message string           `json:"message"`
	Effects []Effect         `json:"effects"`
}

type cartService struct {
	cartRepo repository.CartRepository
	counts   CartCountNotifier
}

func NewCartService(cartRepo repository.CartRepository, counts CartCountNotifier) CartService {
	if counts == nil {
		counts = noopCartCountNotifier{}
	}
	return &cartService{
		cartRepo: cartRepo,
		counts:   counts,
	}
}

// GetCart never fails: unreadable state is logged and shown as an empty cart.
func (s *cartService) GetCart(ctx context.Context, sessionID string) []model.LineItem {
	items, err := s.cartRepo.Load(ctx, sessionID)
	if err != nil {
		logger.Warn("Serving empty cart after state read failure", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return []model.LineItem{}
	}
	return items
}

// LoadCart is GetCart for callers that write state back: a backend failure is
// returned so the stored cart is never overwritten from an empty read.
func (s *cartService) LoadCart(ctx context.Context, sessionID string) ([]model.LineItem, error) {
	return s.cartRepo.Load(ctx, sessionID)
}

func (s *cartService) SaveCart(ctx context.Context, sessionID string, items []model.LineItem) ([]Effect, error) {
	if err := s.cartRepo.Save(ctx, sessionID, items); err != nil {
		return nil, err
	}

	s.counts.PublishCartCount(sessionID, len(items))
	return []Effect{
		{Kind: EffectPersist, Key: repository.CartKey},
		{Kind: EffectCartCount, Count: len(items)},
	}, nil
}

func (s *cartService) AddToCart(ctx context.Context, sessionID, name string, price float64) (*AddToCartResult, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"session_id": sessionID,
		"name":       name,
		"price":      price,
	})

	items, err := s.LoadCart(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to read cart before adding item", err, map[string]interface{}{
			"session_id": sessionID,
			"name":       name,
		})
		return nil, err
	}
	items = append(items, model.LineItem{Name: name, Price: price})

	effects, err := s.SaveCart(ctx, sessionID, items)
	if err != nil {
		logger.Error("Failed to add item to cart", err, map[string]interface{}{
			"session_id": sessionID,
			"name":       name,
		})
		return nil, err
	}

	message := fmt.Sprintf("%s has been added to your cart!", name)
	effects = append(effects, Effect{Kind: EffectAcknowledge, Message: message})

	logger.Info("Cart item added successfully", map[string]interface{}{
		"session_id": sessionID,
		"count":      len(items),
	})
	return &AddToCartResult{
		Items:   items,
		Count:   len(items),
		Message: message,
		Effects: effects,
	}, nil
}

func (s *cartService) CartCount(ctx context.Context, sessionID string) int {
	return len(s.GetCart(ctx, sessionID))
}
