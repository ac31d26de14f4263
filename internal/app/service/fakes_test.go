package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/ikkim/perfume-storefront/internal/app/model"
	"github.com/ikkim/perfume-storefront/internal/app/repository"
	"github.com/ikkim/perfume-storefront/internal/storage"
	"github.com/ikkim/perfume-storefront/pkg/paypal"
	"github.com/stretchr/testify/require"
)

var testTemplates = NotificationTemplates{
	Owner:    "template_owner",
	Customer: "template_customer",
	GiftCard: "template_giftcard_notify",
}

type sentMessage struct {
	TemplateID string
	Params     map[string]string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	fail map[string]error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{fail: map[string]error{}}
}

func (f *fakeNotifier) Send(_ context.Context, templateID string, params map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{TemplateID: templateID, Params: params})
	return f.fail[templateID]
}

func (f *fakeNotifier) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeNotifier) byTemplate(templateID string) []sentMessage {
	var out []sentMessage
	for _, m := range f.messages() {
		if m.TemplateID == templateID {
			out = append(out, m)
		}
	}
	return out
}

type fakeSource struct {
	cards   []model.GiftCardRecord
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeSource) Load(ctx context.Context) ([]model.GiftCardRecord, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.cards, f.err
}

type recordingCounts struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *recordingCounts) PublishCartCount(sessionID string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[sessionID] = count
}

func (r *recordingCounts) get(sessionID string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.counts[sessionID]
	return c, ok
}

type storefront struct {
	store     *storage.MemoryStore
	flaky     *flakyStore
	carts     CartService
	views     CartViewService
	giftCards GiftCardService
	checkout  CheckoutService
	giftRepo  repository.GiftCardRepository
	notifier  *fakeNotifier
	source    *fakeSource
	counts    *recordingCounts
}

var errStoreDown = errors.New("store down")

func setupStorefrontTest(t *testing.T) *storefront {
	t.Helper()

	store := storage.NewMemoryStore()
	flaky := &flakyStore{Store: store}
	cartRepo := repository.NewCartRepository(flaky)
	giftRepo := repository.NewGiftCardRepository(flaky)
	counts := &recordingCounts{}
	notifier := newFakeNotifier()
	source := &fakeSource{cards: []model.GiftCardRecord{
		{Code: "GIFT10", Balance: 10},
		{Code: "BIG100", Balance: 100},
		{Code: "OLD5", Balance: 5, Active: model.BoolPtr(false)},
	}}

	notifications, err := NewNotificationService(notifier, testTemplates)
	require.NoError(t, err)

	guard := NewInFlightGuard()
	carts := NewCartService(cartRepo, counts)
	giftCards := NewGiftCardService(carts, giftRepo, source, notifications, guard)
	checkout, err := NewCheckoutService(carts, giftRepo, notifications, paypal.Config{
		Endpoint: "https://www.paypal.com/cgi-bin/webscr",
		Business: "shop@example.com",
		Currency: "USD",
	}, guard)
	require.NoError(t, err)

	t.Cleanup(giftCards.Wait)

	return &storefront{
		store:     store,
		flaky:     flaky,
		carts:     carts,
		views:     NewCartViewService(carts, giftRepo),
		giftCards: giftCards,
		checkout:  checkout,
		giftRepo:  giftRepo,
		notifier:  notifier,
		source:    source,
		counts:    counts,
	}
}

func (s *storefront) fillCart(t *testing.T, sessionID string, items ...model.LineItem) {
	t.Helper()
	for _, item := range items {
		_, err := s.carts.AddToCart(context.Background(), sessionID, item.Name, item.Price)
		require.NoError(t, err)
	}
}

var sampleCart = []model.LineItem{
	{Name: "Rose Oil", Price: 20.00},
	{Name: "Amber Musk", Price: 15.00},
}

// failingStore errors on every read.
type failingStore struct {
	storage.Store
}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errStoreDown
}

func (failingStore) Set(context.Context, string, []byte) error {
	return errStoreDown
}

// flakyStore fails the next n reads of one state slot, then passes through.
type flakyStore struct {
	storage.Store

	mu       sync.Mutex
	slot     string
	failGets int
}

func (f *flakyStore) failNextGets(slot string, n int) {
	f.mu.Lock()
	f.slot, f.failGets = slot, n
	f.mu.Unlock()
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	if f.failGets > 0 && strings.HasSuffix(key, ":"+f.slot) {
		f.failGets--
		f.mu.Unlock()
		return nil, errStoreDown
	}
	f.mu.Unlock()
	return f.Store.Get(ctx, key)
}
