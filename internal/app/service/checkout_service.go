package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/perfume-storefront/internal/app/model"
	"github.com/ikkim/perfume-storefront/internal/app/repository"
	"github.com/ikkim/perfume-storefront/pkg/logger"
	"github.com/ikkim/perfume-storefront/pkg/paypal"
)

var (
	ErrCheckoutIncomplete = errors.New("required customer details are missing")
	ErrNotificationFailed = errors.New("failed to send order confirmation")
)

const (
	LabelSending     = "Sending confirmation..."
	LabelRedirecting = "Redirecting to PayPal..."
	LabelCheckout    = "Checkout with PayPal"

	actionCheckout = "checkout"
)

// GateResult says whether the checkout control may be used.
type GateResult struct {
	Enabled bool     `json:"enabled"`
	Missing []string `json:"missing"`
}

type CheckoutResult struct {
	Label             string            `json:"label"`
	Gate              GateResult        `json:"gate"`
	Totals            model.OrderTotals `json:"totals"`
	GiftCardCode      string            `json:"giftcard_code,omitempty"`
	GiftCardRemaining float64           `json:"giftcard_remaining"`
	Handoff           *paypal.Form      `json:"handoff,omitempty"`
	FailureDetail     string            `json:"failure_detail,omitempty"`
	Effects           []Effect          `json:"effects"`
}

type CheckoutService interface {
	Validate(details model.CustomerDetails) GateResult
	Submit(ctx context.Context, sessionID string, details model.CustomerDetails) (*CheckoutResult, error)
}

type checkoutService struct {
	cartService   CartService
	giftCardRepo  repository.GiftCardRepository
	notifications NotificationService
	paypal        paypal.Config
	guard         *InFlightGuard
}

func NewCheckoutService(
	cartService CartService,
	giftCardRepo repository.GiftCardRepository,
	notifications NotificationService,
	paypalConfig paypal.Config,
	guard *InFlightGuard,
) (CheckoutService, error) {
	if err := paypalConfig.Validate(); err != nil {
		return nil, err
	}
	if guard == nil {
		guard = NewInFlightGuard()
	}
	return &checkoutService{
		cartService:   cartService,
		giftCardRepo:  giftCardRepo,
		notifications: notifications,
		paypal:        paypalConfig,
		guard:         guard,
	}, nil
}

func (s *checkoutService) Validate(details model.CustomerDetails) GateResult {
	missing := details.MissingFields()
	if missing == nil {
		missing = []string{}
	}
	return GateResult{
		Enabled: len(missing) == 0,
		Missing: missing,
	}
}

func (s *checkoutService) Submit(ctx context.Context, sessionID string, details model.CustomerDetails) (*CheckoutResult, error) {
	gate := s.Validate(details)
	if !gate.Enabled {
		logger.Debug("Checkout gate closed", map[string]interface{}{
			"session_id": sessionID,
			"missing":    gate.Missing,
		})
		return &CheckoutResult{Label: LabelCheckout, Gate: gate, Effects: []Effect{}}, ErrCheckoutIncomplete
	}

	release, ok := s.guard.Acquire(sessionID, actionCheckout)
	if !ok {
		logger.Warn("Checkout already in flight", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, ErrRequestInFlight
	}
	defer release()

	logger.Info("Submitting checkout", map[string]interface{}{
		"session_id": sessionID,
	})

	items, err := s.cartService.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	applied, err := s.giftCardRepo.Load(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to read applied gift card for checkout", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	totals := ComputeTotals(items, applied)
	var giftCode string
	var giftRemaining float64
	if applied != nil {
		giftCode = applied.Code
		giftRemaining = RemainingAfter(applied.Available(), totals.GiftDiscount)
	}

	params := orderParams(details, items, totals, giftCode, giftRemaining)
	if err := s.notifications.NotifyOrder(ctx, params); err != nil {
		logger.Error("Checkout notification failed", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return &CheckoutResult{
			Label:         LabelCheckout,
			Gate:          s.Validate(details),
			Totals:        totals,
			GiftCardCode:  giftCode,
			FailureDetail: err.Error(),
			Effects:       []Effect{},
		}, fmt.Errorf("%w: %w", ErrNotificationFailed, err)
	}

	templates := s.notifications.Templates()
	effects := []Effect{
		{Kind: EffectNotify, Template: templates.Owner},
		{Kind: EffectNotify, Template: templates.Customer},
	}

	if applied != nil {
		updated := model.AppliedGiftCard{
			Code:      applied.Code,
			Remaining: model.Float64Ptr(giftRemaining),
			Balance:   applied.Balance,
		}
		// the confirmation is already out, so a failed write must not block payment
		if err := s.giftCardRepo.Save(ctx, sessionID, updated); err != nil {
			logger.Error("Failed to record gift card usage after checkout", err, map[string]interface{}{
				"session_id": sessionID,
				"code":       applied.Code,
			})
		} else {
			effects = append(effects, Effect{Kind: EffectPersist, Key: repository.AppliedGiftCardKey})
		}
	}

	view := BuildCartView(items, applied)
	form, err := paypal.BuildCartForm(s.paypal, view.PaymentFields)
	if err != nil {
		return nil, err
	}
	effects = append(effects, Effect{Kind: EffectRedirect, Message: LabelRedirecting})

	logger.Info("Checkout confirmed, handing off to PayPal", map[string]interface{}{
		"session_id":  sessionID,
		"grand_total": totals.GrandTotal,
		"items":       len(items),
	})

	return &CheckoutResult{
		Label:             LabelRedirecting,
		Gate:              gate,
		Totals:            totals,
		GiftCardCode:      giftCode,
		GiftCardRemaining: giftRemaining,
		Handoff:           &form,
		Effects:           effects,
	}, nil
}

func orderParams(details model.CustomerDetails, items []model.LineItem, totals model.OrderTotals, giftCode string, giftRemaining float64) map[string]string {
	spray := "No"
	if details.PerfumeSpray {
		spray = "Yes"
	}
	extra := details.ExtraDetails
	if strings.TrimSpace(extra) == "" {
		extra = "None"
	}

	return map[string]string{
		"customer-name":      details.Name,
		"customer-address":   details.Address,
		"customer-email":     details.Email,
		"perfume-spray":      spray,
		"extra-details":      extra,
		"subtotal":           FormatAmount(totals.Subtotal),
		"shipping":           FormatAmount(totals.Shipping),
		"tax":                FormatAmount(totals.Tax),
		"grand-total":        FormatAmount(totals.GrandTotal),
		"giftcard-code":      giftCode,
		"giftcard-discount":  FormatAmount(totals.GiftDiscount),
		"giftcard-remaining": FormatAmount(giftRemaining),
		"prediscount-total":  FormatAmount(totals.PreDiscountTotal),
		"cart-items":         cartItemsSummary(items),
	}
}
