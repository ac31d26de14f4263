package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/perfume-storefront/internal/app/model"
	"github.com/ikkim/perfume-storefront/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGiftCardService_Apply_EmptyCode(t *testing.T) {
	sf := setupStorefrontTest(t)

	result, err := sf.giftCards.Apply(context.Background(), "s1", ApplyGiftCardRequest{Code: "   "})
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, RejectEmptyCode, result.Reason)
	assert.Equal(t, MsgGiftCardEmptyCode, result.Message)
	assert.Empty(t, result.Effects)
}

func TestGiftCardService_Apply_FetchFailureKeepsState(t *testing.T) {
	sf := setupStorefrontTest(t)
	ctx := context.Background()
	prior := model.AppliedGiftCard{Code: "GIFT10", Balance: 10, Remaining: model.Float64Ptr(6)}
	require.NoError(t, sf.giftRepo.Save(ctx, "s1", prior))
	sf.source.err = errors.New("connection refused")

	result, err := sf.giftCards.Apply(ctx, "s1", ApplyGiftCardRequest{Code: "GIFT10"})
	require.NoError(t, err)
	assert.Equal(t, RejectFetchFailed, result.Reason)
	assert.Equal(t, MsgGiftCardFetchFailed, result.Message)

	stored, err := sf.giftRepo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, &prior, stored)
}

func TestGiftCardService_Apply_Scenario(t *testing.T) {
	sf := setupStorefrontTest(t)
	ctx := context.Background()
	sf.fillCart(t, "s1", sampleCart...)

	result, err := sf.giftCards.Apply(ctx, "s1", ApplyGiftCardRequest{Code: " gift10 "})
	require.NoError(t, err)

	assert.Equal(t, OutcomeApplied, result.Outcome)
	assert.InDelta(t, 10.00, result.Discount, cents)
	assert.InDelta(t, 32.93125, result.Totals.GrandTotal, cents)
	assert.Equal(t, "Applied GIFT10 • Using $10.00 now. Remaining balance: $0.00", result.Message)

	stored, err := sf.giftRepo.Load(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "GIFT10", stored.Code)
	assert.Equal(t, 10.0, stored.Balance)
	require.NotNil(t, stored.Remaining)
	assert.InDelta(t, 0.0, *stored.Remaining, cents)

	assert.Contains(t, result.Effects, Effect{Kind: EffectPersist, Key: repository.AppliedGiftCardKey})
	assert.Contains(t, result.Effects, Effect{Kind: EffectRender})
}

func TestGiftCardService_Apply_ViewUsesRecordedRemaining(t *testing.T) {
	sf := setupStorefrontTest(t)
	ctx := context.Background()
	sf.fillCart(t, "s1", sampleCart...)

	result, err := sf.giftCards.Apply(ctx, "s1", ApplyGiftCardRequest{Code: "BIG100"})
	require.NoError(t, err)

	// the re-render prices against what is left on the card after this use
	assert.Equal(t, sf.views.Render(ctx, "s1"), *result.View)
	assert.InDelta(t, 42.93125, result.View.Totals.GiftDiscount, cents)
	assert.InDelta(t, 100-42.93125, *result.Applied.Remaining, cents)
}

func TestGiftCardService_Apply_CoversWholeOrder(t *testing.T) {
	sf := setupStorefrontTest(t)
	ctx := context.Background()
	sf.fillCart(t, "s1", sampleCart...)

	result, err := sf.giftCards.Apply(ctx, "s1", ApplyGiftCardRequest{Code: "BIG100"})
	require.NoError(t, err)

	assert.Zero(t, result.Totals.GrandTotal)
	assert.InDelta(t, 42.93125, result.Discount, cents)
	assert.InDelta(t, 100-42.93125, *result.Applied.Remaining, cents)
}

func TestGiftCardService_Apply_RemainingIsSticky(t *testing.T) {
	sf := setupStorefrontTest(t)
	ctx := context.Background()
	sf.fillCart(t, "s1", sampleCart...)

	first, err := sf.giftCards.Apply(ctx, "s1", ApplyGiftCardRequest{Code: "BIG100"})
	require.NoError(t, err)
	second, err := sf.giftCards.Apply(ctx, "s1", ApplyGiftCardRequest{Code: "big100"})
	require.NoError(t, err)

	assert.Equal(t, 100.0, second.Applied.Balance)
	assert.Less(t, *second.Applied.Remaining, *first.Applied.Remaining)
	assert.InDelta(t, 100-2*42.93125, *second.Applied.Remaining, cents)
}

func TestGiftCardService_Apply_ReadFailureKeepsUsage(t *testing.T) {
	sf := setupStorefrontTest(t)
	ctx := context.Background()
	sf.fillCart(t, "s1", sampleCart...)
	spent := model.AppliedGiftCard{Code: "GIFT10", Balance: 10, Remaining: model.Float64Ptr(0)}
	require.NoError(t, sf.giftRepo.Save(ctx, "s1", spent))

	sf.flaky.failNextGets(repository.AppliedGiftCardKey, 1)
	result, err := sf.giftCards.Apply(ctx, "s1", ApplyGiftCardRequest{Code: "GIFT10"})
	assert.ErrorIs(t, err, errStoreDown)
	assert.Nil(t, result)

	stored, err := sf.giftRepo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, &spent, stored)
	assert.Empty(t, sf.notifier.messages())
}

func TestGiftCardService_Apply_CartReadFailure(t *testing.T) {
	sf := setupStorefrontTest(t)
	ctx := context.Background()
	sf.fillCart(t, "s1", sampleCart...)

	sf.flaky.failNextGets(repository.CartKey, 1)
	_, err := sf.giftCards.Apply(ctx, "s1", ApplyGiftCardRequest{Code: "BIG100"})
	assert.ErrorIs(t, err, errStoreDown)

	stored, err := sf.giftRepo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestGiftCardService_Apply_OtherCardStartsFromItsBalance(t *testing.T) {
	sf := setupStorefrontTest(t)
	ctx := context.Background()
	sf.fillCart(t, "s1", sampleCart...)
	require.NoError(t, sf.giftRepo.Save(ctx, "s1", model.AppliedGiftCard{
		Code: "BIG100", Balance: 100, Remaining: model.Float64Ptr(1),
	}))

	result, err := sf.giftCards.Apply(ctx, "s1", ApplyGiftCardRequest{Code: "GIFT10"})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, result.Discount, cents)
}

func TestGiftCardService_Apply_InvalidCodeClearsCard(t *testing.T) {
	sf := setupStorefrontTest(t)
	ctx := context.Background()
	sf.fillCart(t, "s1", sampleCart...)
	require.NoError(t, sf.giftRepo.Save(ctx, "s1", model.AppliedGiftCard{Code: "GIFT10", Balance: 10}))

	for _, code := range []string{"NOPE", "OLD5"} {
		result, err := sf.giftCards.Apply(ctx, "s1", ApplyGiftCardRequest{Code: code})
		require.NoError(t, err)
		assert.Equal(t, RejectNotFound, result.Reason)
		assert.Equal(t, MsgGiftCardNotFound, result.Message)
		require.NotNil(t, result.View)
		assert.False(t, result.View.Summary.DiscountVisible)
		assert.Equal(t, "$42.93", result.View.Summary.GrandTotal)
		assert.Contains(t, result.Effects, Effect{Kind: EffectClear, Key: repository.AppliedGiftCardKey})
	}

	stored, err := sf.giftRepo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Empty(t, sf.notifier.messages())
}

func TestGiftCardService_Apply_NotifiesOwner(t *testing.T) {
	sf := setupStorefrontTest(t)
	ctx := context.Background()
	sf.fillCart(t, "s1", sampleCart...)
	sf.giftCards.(*giftCardService).now = func() time.Time {
		return time.Date(2026, 3, 4, 15, 5, 6, 0, time.UTC)
	}

	_, err := sf.giftCards.Apply(ctx, "s1", ApplyGiftCardRequest{
		Code:          "gift10",
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
	})
	require.NoError(t, err)
	sf.giftCards.Wait()

	sent := sf.notifier.byTemplate(testTemplates.GiftCard)
	require.Len(t, sent, 1)
	assert.Equal(t, map[string]string{
		"giftcard_code":     "GIFT10",
		"discount_applied":  "10.00",
		"remaining_balance": "0.00",
		"subtotal":          "35.00",
		"shipping":          "5.00",
		"tax":               "2.93",
		"prediscount_total": "42.93",
		"cart_items":        "Rose Oil ($20.00), Amber Musk ($15.00)",
		"customer_email":    "ada@example.com",
		"customer_name":     "Ada",
		"entered_code":      "gift10",
		"used_at":           "3/4/2026, 3:05:06 PM",
	}, sent[0].Params)
}

func TestGiftCardService_Apply_NotificationFailureIsSilent(t *testing.T) {
	sf := setupStorefrontTest(t)
	sf.notifier.fail[testTemplates.GiftCard] = errors.New("quota exceeded")

	result, err := sf.giftCards.Apply(context.Background(), "s1", ApplyGiftCardRequest{Code: "GIFT10"})
	require.NoError(t, err)
	sf.giftCards.Wait()

	assert.Equal(t, OutcomeApplied, result.Outcome)
	assert.Len(t, sf.notifier.byTemplate(testTemplates.GiftCard), 1)
	assert.Equal(t, "None", sf.notifier.byTemplate(testTemplates.GiftCard)[0].Params["cart_items"])
}

func TestGiftCardService_Apply_RejectsConcurrentApply(t *testing.T) {
	sf := setupStorefrontTest(t)
	sf.source.started = make(chan struct{}, 1)
	sf.source.release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := sf.giftCards.Apply(context.Background(), "s1", ApplyGiftCardRequest{Code: "GIFT10"})
		done <- err
	}()
	<-sf.source.started

	_, err := sf.giftCards.Apply(context.Background(), "s1", ApplyGiftCardRequest{Code: "GIFT10"})
	assert.ErrorIs(t, err, ErrRequestInFlight)

	close(sf.source.release)
	require.NoError(t, <-done)

	sf.source.started = nil
	_, err = sf.giftCards.Apply(context.Background(), "s1", ApplyGiftCardRequest{Code: "GIFT10"})
	assert.NoError(t, err)
}

func TestGiftCardService_Current(t *testing.T) {
	sf := setupStorefrontTest(t)
	ctx := context.Background()

	assert.Equal(t, GiftCardStatus{}, sf.giftCards.Current(ctx, "s1"))

	require.NoError(t, sf.giftRepo.Save(ctx, "s1", model.AppliedGiftCard{
		Code: "GIFT10", Balance: 10, Remaining: model.Float64Ptr(3.5),
	}))
	status := sf.giftCards.Current(ctx, "s1")
	assert.True(t, status.Applied)
	assert.Equal(t, "GIFT10", status.Code)
	assert.Equal(t, "Applied GIFT10 • Remaining balance: $3.50", status.Message)

	require.NoError(t, sf.giftRepo.Save(ctx, "s2", model.AppliedGiftCard{Code: "GIFT10", Balance: 10}))
	status = sf.giftCards.Current(ctx, "s2")
	assert.True(t, status.Applied)
	assert.Empty(t, status.Message)
}
