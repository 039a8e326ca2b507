package market

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wagneradl/opsdesk/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func catalog() []models.MarketTool {
	return []models.MarketTool{
		{ID: "llm1", Name: "Gemini 3.0 Pro", Price: 2.50, Trend: models.TrendStable, LastUpdated: "Yesterday"},
		{ID: "vid3", Name: "Sora", Price: 0, Trend: models.TrendStable, LastUpdated: "Yesterday"},
	}
}

func TestRefreshBounds(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed+1))
		got := Refresh(catalog(), rng, UpdatedLabel)

		require.Len(t, got, 2)
		assert.GreaterOrEqual(t, got[0].Price, 2.45)
		assert.Less(t, got[0].Price, 2.625)
		assert.Equal(t, 0.0, got[1].Price)
		for _, tool := range got {
			assert.Contains(t, []string{models.TrendUp, models.TrendDown}, tool.Trend)
			assert.Equal(t, UpdatedLabel, tool.LastUpdated)
		}
	}
}

func TestRefreshDoesNotMutateInput(t *testing.T) {
	in := catalog()
	Refresh(in, rand.New(rand.NewPCG(1, 2)), UpdatedLabel)
	assert.Equal(t, 2.50, in[0].Price)
	assert.Equal(t, "Yesterday", in[0].LastUpdated)
}

func fastRefresher() *Refresher {
	r := NewRefresher(rand.New(rand.NewPCG(7, 7)), nil)
	r.Stages = []Stage{{0, "one"}, {time.Millisecond, "two"}}
	r.ApplyAfter = time.Millisecond
	return r
}

func TestRefresherRunAppliesRefresh(t *testing.T) {
	r := fastRefresher()
	tools := catalog()

	err := r.Run(context.Background(), func(refresh func([]models.MarketTool) []models.MarketTool) error {
		assert.True(t, r.Active())
		assert.Equal(t, "two", r.Status())
		tools = refresh(tools)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, UpdatedLabel, tools[0].LastUpdated)
	assert.Equal(t, IdleLabel, r.Status())
	assert.False(t, r.Active())
}

func TestRefresherCancelLeavesCatalog(t *testing.T) {
	r := fastRefresher()
	r.ApplyAfter = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	applied := false
	go func() {
		done <- r.Run(ctx, func(func([]models.MarketTool) []models.MarketTool) error {
			applied = true
			return nil
		})
	}()
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, applied)
	assert.Equal(t, IdleLabel, r.Status())
}

func TestRefresherReturnsApplyError(t *testing.T) {
	r := fastRefresher()
	boom := errors.New("disk full")
	err := r.Run(context.Background(), func(func([]models.MarketTool) []models.MarketTool) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestRefresherRejectsOverlap(t *testing.T) {
	r := fastRefresher()

	err := r.Run(context.Background(), func(func([]models.MarketTool) []models.MarketTool) error {
		return r.Run(context.Background(), func(func([]models.MarketTool) []models.MarketTool) error { return nil })
	})
	assert.ErrorIs(t, err, ErrRunning)
	assert.False(t, r.Active())
}
