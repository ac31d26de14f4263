package service

import (
	"context"
	"fmt"

	"github.com/ikkim/perfume-storefront/internal/app/model"
	"github.com/ikkim/perfume-storefront/internal/app/repository"
	"github.com/ikkim/perfume-storefront/pkg/logger"
	"github.com/ikkim/perfume-storefront/pkg/paypal"
)

// CartSummary holds the formatted summary lines of the cart page.
type CartSummary struct {
	Subtotal        string `json:"subtotal"`
	Shipping        string `json:"shipping"`
	Tax             string `json:"tax"`
	Discount        string `json:"discount"`
	DiscountVisible bool   `json:"discount_visible"`
	GrandTotal      string `json:"grand_total"`
}

// CartView is everything the cart page displays, rebuilt from state on
// every call.
type CartView struct {
	Items         []string          `json:"items"`
	Count         int               `json:"count"`
	Summary       CartSummary       `json:"summary"`
	PaymentFields []paypal.Field    `json:"payment_fields"`
	Totals        model.OrderTotals `json:"totals"`
}

type CartViewService interface {
	Render(ctx context.Context, sessionID string) CartView
}

type cartViewService struct {
	cartService  CartService
	giftCardRepo repository.GiftCardRepository
}

func NewCartViewService(cartService CartService, giftCardRepo repository.GiftCardRepository) CartViewService {
	return &cartViewService{
		cartService:  cartService,
		giftCardRepo: giftCardRepo,
	}
}

func (s *cartViewService) Render(ctx context.Context, sessionID string) CartView {
	items := s.cartService.GetCart(ctx, sessionID)

	applied, err := s.giftCardRepo.Load(ctx, sessionID)
	if err != nil {
		logger.Warn("Rendering cart without gift card after state read failure", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		applied = nil
	}

	return BuildCartView(items, applied)
}

// BuildCartView is the pure projection behind Render.
func BuildCartView(items []model.LineItem, applied *model.AppliedGiftCard) CartView {
	totals := ComputeTotals(items, applied)

	lines := make([]string, 0, len(items))
	payItems := make([]paypal.Item, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s – %s", item.Name, FormatCurrency(item.Price)))
		payItems = append(payItems, paypal.Item{Name: item.Name, Amount: FormatAmount(item.Price)})
	}

	fields := paypal.CartFields(payItems, FormatAmount(totals.Shipping), FormatAmount(totals.Tax))
	fields = append(fields, paypal.DiscountField(FormatAmount(totals.GiftDiscount)))

	return CartView{
		Items: lines,
		Count: len(items),
		Summary: CartSummary{
			Subtotal:        FormatCurrency(totals.Subtotal),
			Shipping:        FormatCurrency(totals.Shipping),
			Tax:             FormatCurrency(totals.Tax),
			Discount:        FormatDeduction(totals.GiftDiscount),
			DiscountVisible: totals.GiftDiscount > 0,
			GrandTotal:      FormatCurrency(totals.GrandTotal),
		},
		PaymentFields: fields,
		Totals:        totals,
	}
}
