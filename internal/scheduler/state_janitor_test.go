package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ikkim/perfume-storefront/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPurger struct {
	cutoff time.Time
	err    error
}

func (p *recordingPurger) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	p.cutoff = cutoff
	return 4, p.err
}

func TestStateJanitor_RunOnce(t *testing.T) {
	purger := &recordingPurger{}
	janitor := NewStateJanitor(purger, "0 3 * * *", 48*time.Hour)
	now := time.Date(2026, 5, 10, 3, 0, 0, 0, time.UTC)
	janitor.now = func() time.Time { return now }

	purged, err := janitor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), purged)
	assert.Equal(t, now.Add(-48*time.Hour), purger.cutoff)
}

func TestStateJanitor_RunOnce_Error(t *testing.T) {
	purger := &recordingPurger{err: errors.New("db down")}
	janitor := NewStateJanitor(purger, "0 3 * * *", time.Hour)

	_, err := janitor.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestStateJanitor_RunOnce_MemoryStore(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "session:s1:cart", []byte(`[]`)))

	janitor := NewStateJanitor(store, "@daily", time.Hour)
	janitor.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	purged, err := janitor.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	assert.Equal(t, 0, store.Len())
}

func TestStateJanitor_StartRejectsBadSchedule(t *testing.T) {
	janitor := NewStateJanitor(&recordingPurger{}, "not a schedule", time.Hour)
	assert.Error(t, janitor.Start())
}

func TestStateJanitor_StartStop(t *testing.T) {
	janitor := NewStateJanitor(&recordingPurger{}, "@hourly", time.Hour)
	require.NoError(t, janitor.Start())
	janitor.Stop()
}
