package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotificationService_RequiresNotifier(t *testing.T) {
	_, err := NewNotificationService(nil, testTemplates)
	assert.ErrorIs(t, err, ErrNotifierMissing)
}

func TestNotificationService_NotifyOrder_SendsBoth(t *testing.T) {
	notifier := newFakeNotifier()
	svc, err := NewNotificationService(notifier, testTemplates)
	require.NoError(t, err)

	params := map[string]string{"grand-total": "42.93"}
	require.NoError(t, svc.NotifyOrder(context.Background(), params))

	sent := notifier.messages()
	require.Len(t, sent, 2)
	templates := []string{sent[0].TemplateID, sent[1].TemplateID}
	assert.ElementsMatch(t, []string{testTemplates.Owner, testTemplates.Customer}, templates)
}

func TestNotificationService_NotifyOrder_ReturnsFailure(t *testing.T) {
	notifier := newFakeNotifier()
	sendErr := errors.New("rate limited")
	notifier.fail[testTemplates.Customer] = sendErr
	svc, err := NewNotificationService(notifier, testTemplates)
	require.NoError(t, err)

	err = svc.NotifyOrder(context.Background(), map[string]string{})
	assert.ErrorIs(t, err, sendErr)
	assert.Len(t, notifier.messages(), 2)
}

func TestNotificationService_NotifyGiftCardUse(t *testing.T) {
	notifier := newFakeNotifier()
	svc, err := NewNotificationService(notifier, testTemplates)
	require.NoError(t, err)

	require.NoError(t, svc.NotifyGiftCardUse(context.Background(), map[string]string{"giftcard_code": "GIFT10"}))
	assert.Len(t, notifier.byTemplate(testTemplates.GiftCard), 1)
	assert.Equal(t, testTemplates, svc.Templates())
}
