package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ikkim/perfume-storefront/internal/app/model"
	"github.com/ikkim/perfume-storefront/internal/app/repository"
	"github.com/ikkim/perfume-storefront/internal/catalog"
	"github.com/ikkim/perfume-storefront/pkg/logger"
)

const (
	MsgGiftCardEmptyCode   = "Please enter a gift card code."
	MsgGiftCardFetchFailed = "There was a problem checking the gift card. Please try again."
	MsgGiftCardNotFound    = "Gift card not found or inactive."

	// usedAtLayout matches the storefront's en-US locale timestamp.
	usedAtLayout = "1/2/2006, 3:04:05 PM"

	actionApplyGiftCard = "giftcard_apply"
)

type ApplyOutcome string

const (
	OutcomeApplied  ApplyOutcome = "applied"
	OutcomeRejected ApplyOutcome = "rejected"
)

type RejectReason string

const (
	RejectEmptyCode   RejectReason = "empty_code"
	RejectFetchFailed RejectReason = "fetch_failed"
	RejectNotFound    RejectReason = "not_found"
)

type ApplyGiftCardRequest struct {
	Code          string `json:"code"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

type ApplyGiftCardResult struct {
	Outcome  ApplyOutcome           `json:"outcome"`
	Reason   RejectReason           `json:"reason,omitempty"`
	Message  string                 `json:"message"`
	Applied  *model.AppliedGiftCard `json:"applied,omitempty"`
	Discount float64                `json:"discount"`
	Totals   *model.OrderTotals     `json:"totals,omitempty"`
	View     *CartView              `json:"view,omitempty"`
	Effects  []Effect               `json:"effects"`
}

// GiftCardStatus restores the gift card banner on page load.
type GiftCardStatus struct {
	Applied   bool     `json:"applied"`
	Code      string   `json:"code,omitempty"`
	Remaining *float64 `json:"remaining,omitempty"`
	Message   string   `json:"message,omitempty"`
}

type GiftCardService interface {
	Apply(ctx context.Context, sessionID string, req ApplyGiftCardRequest) (*ApplyGiftCardResult, error)
	Current(ctx context.Context, sessionID string) GiftCardStatus
	// Wait blocks until every detached owner notification has finished.
	Wait()
}

type giftCardService struct {
	cartService   CartService
	giftCardRepo  repository.GiftCardRepository
	source        catalog.Source
	notifications NotificationService
	guard         *InFlightGuard
	now           func() time.Time
	pending       sync.WaitGroup
}

func NewGiftCardService(
	cartService CartService,
	giftCardRepo repository.GiftCardRepository,
	source catalog.Source,
	notifications NotificationService,
	guard *InFlightGuard,
) GiftCardService {
	if guard == nil {
		guard = NewInFlightGuard()
	}
	return &giftCardService{
		cartService:   cartService,
		giftCardRepo:  giftCardRepo,
		source:        source,
		notifications: notifications,
		guard:         guard,
		now:           time.Now,
	}
}

func (s *giftCardService) Apply(ctx context.Context, sessionID string, req ApplyGiftCardRequest) (*ApplyGiftCardResult, error) {
	release, ok := s.guard.Acquire(sessionID, actionApplyGiftCard)
	if !ok {
		logger.Warn("Gift card apply already in flight", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, ErrRequestInFlight
	}
	defer release()

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return rejected(RejectEmptyCode, MsgGiftCardEmptyCode), nil
	}

	logger.Info("Applying gift card", map[string]interface{}{
		"session_id": sessionID,
		"code":       code,
	})

	cards, err := s.source.Load(ctx)
	if err != nil {
		logger.Error("Failed to load gift card catalog", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return rejected(RejectFetchFailed, MsgGiftCardFetchFailed), nil
	}

	items, err := s.cartService.LoadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	record, found := catalog.Find(cards, code)
	if !found {
		logger.Info("Gift card not found or inactive", map[string]interface{}{
			"session_id": sessionID,
			"code":       code,
		})
		if err := s.giftCardRepo.Clear(ctx, sessionID); err != nil {
			return nil, err
		}
		view := BuildCartView(items, nil)
		result := rejected(RejectNotFound, MsgGiftCardNotFound)
		result.View = &view
		result.Effects = []Effect{
			{Kind: EffectClear, Key: repository.AppliedGiftCardKey},
			{Kind: EffectRender},
		}
		return result, nil
	}

	prior, err := s.giftCardRepo.Load(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to read prior gift card state", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	available := record.Balance
	// Only the same card's remaining carries over; another card starts from its own balance.
	if prior.HasRemaining() && strings.EqualFold(strings.TrimSpace(prior.Code), strings.TrimSpace(record.Code)) {
		available = *prior.Remaining
	}

	totals := ComputeTotals(items, nil)
	discount := GiftDiscount(available, totals.PreDiscountTotal)
	remaining := RemainingAfter(available, discount)
	totals.GiftDiscount = discount
	totals.GrandTotal = totals.PreDiscountTotal - discount
	if totals.GrandTotal < 0 {
		totals.GrandTotal = 0
	}

	applied := model.AppliedGiftCard{
		Code:      record.Code,
		Remaining: model.Float64Ptr(remaining),
		Balance:   record.Balance,
	}
	if err := s.giftCardRepo.Save(ctx, sessionID, applied); err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, sessionID, req, applied, totals, items)

	view := BuildCartView(items, &applied)

	logger.Info("Gift card applied", map[string]interface{}{
		"session_id": sessionID,
		"code":       record.Code,
		"discount":   discount,
		"remaining":  remaining,
	})

	return &ApplyGiftCardResult{
		Outcome: OutcomeApplied,
		Message: fmt.Sprintf("Applied %s • Using %s now. Remaining balance: %s",
			record.Code, FormatCurrency(discount), FormatCurrency(remaining)),
		Applied:  &applied,
		Discount: discount,
		Totals:   &totals,
		View:     &view,
		Effects: []Effect{
			{Kind: EffectPersist, Key: repository.AppliedGiftCardKey},
			{Kind: EffectRender},
			{Kind: EffectNotify, Template: s.notifications.Templates().GiftCard},
		},
	}, nil
}

func (s *giftCardService) Current(ctx context.Context, sessionID string) GiftCardStatus {
	applied, err := s.giftCardRepo.Load(ctx, sessionID)
	if err != nil || applied == nil {
		return GiftCardStatus{}
	}

	status := GiftCardStatus{
		Applied: true,
		Code:    applied.Code,
	}
	if applied.HasRemaining() {
		status.Remaining = model.Float64Ptr(*applied.Remaining)
		status.Message = fmt.Sprintf("Applied %s • Remaining balance: %s",
			applied.Code, FormatCurrency(*applied.Remaining))
	}
	return status
}

func (s *giftCardService) Wait() {
	s.pending.Wait()
}

// notifyOwner sends the usage alert on a detached goroutine. The outcome is
// logged and never reaches the shopper.
func (s *giftCardService) notifyOwner(
	ctx context.Context,
	sessionID string,
	req ApplyGiftCardRequest,
	applied model.AppliedGiftCard,
	totals model.OrderTotals,
	items []model.LineItem,
) {
	params := map[string]string{
		"giftcard_code":     applied.Code,
		"discount_applied":  FormatAmount(totals.GiftDiscount),
		"remaining_balance": FormatAmount(applied.Available()),
		"subtotal":          FormatAmount(totals.Subtotal),
		"shipping":          FormatAmount(totals.Shipping),
		"tax":               FormatAmount(totals.Tax),
		"prediscount_total": FormatAmount(totals.PreDiscountTotal),
		"cart_items":        cartItemsSummary(items),
		"customer_email":    req.CustomerEmail,
		"customer_name":     req.CustomerName,
		"entered_code":      req.Code,
		"used_at":           s.now().Format(usedAtLayout),
	}

	detached := context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Gift card notification panicked", fmt.Errorf("%v", r), map[string]interface{}{
					"session_id": sessionID,
				})
			}
		}()

		if err := s.notifications.NotifyGiftCardUse(detached, params); err != nil {
			logger.Warn("Gift card notification failed", map[string]interface{}{
				"session_id": sessionID,
				"code":       applied.Code,
				"error":      err.Error(),
			})
			return
		}
		logger.Debug("Gift card notification sent", map[string]interface{}{
			"session_id": sessionID,
			"code":       applied.Code,
		})
	}()
}

func rejected(reason RejectReason, message string) *ApplyGiftCardResult {
	return &ApplyGiftCardResult{
		Outcome: OutcomeRejected,
		Reason:  reason,
		Message: message,
		Effects: []Effect{},
	}
}

// cartItemsSummary renders "Name ($12.00), Other ($3.50)" or "None".
func cartItemsSummary(items []model.LineItem) string {
	if len(items) == 0 {
		return "None"
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s (%s)", item.Name, FormatCurrency(item.Price)))
	}
	return strings.Join(parts, ", ")
}
