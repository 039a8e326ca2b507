// Package market simulates live price updates for the tool catalog and
// manages the side-by-side comparison selection.
package market

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wagneradl/opsdesk/internal/models"
	"github.com/wagneradl/opsdesk/internal/pacing"
)

const (
	minFactor = 0.98
	maxFactor = 1.05

	// IdleLabel is shown when no refresh is running.
	IdleLabel = "Refresh Prices"
	// UpdatedLabel replaces LastUpdated on every refreshed tool.
	UpdatedLabel = "Now (real-time)"
)

// Refresh returns a copy of tools with every non-zero price scaled by a
// random factor in [0.98, 1.05). Free and invite-only tools stay at zero.
// Trend is reset from the factor and LastUpdated is set to label.
func Refresh(tools []models.MarketTool, rng *rand.Rand, label string) []models.MarketTool {
	out := make([]models.MarketTool, len(tools))
	for i, t := range tools {
		factor := minFactor + rng.Float64()*(maxFactor-minFactor)
		if t.Price > 0 {
			t.Price *= factor
		} else {
			t.Price = 0
		}
		if factor >= 1 {
			t.Trend = models.TrendUp
		} else {
			t.Trend = models.TrendDown
		}
		t.LastUpdated = label
		out[i] = t
	}
	return out
}

// Stage is one status label of the refresh sequence and the delay before it
// is shown.
type Stage struct {
	After time.Duration
	Label string
}

// DefaultStages paces the refresh feedback. The refresh itself lands
// ApplyAfter after the last stage.
var DefaultStages = []Stage{
	{0, "Connecting to payment gateways..."},
	{800 * time.Millisecond, "Fetching video model status..."},
	{800 * time.Millisecond, "Crawling cloud providers..."},
	{800 * time.Millisecond, "Syncing global forex..."},
}

// ApplyAfter is the delay between the last stage and the price update.
const ApplyAfter = 600 * time.Millisecond

// Refresher runs the paced refresh. The zero value is not usable; use
// NewRefresher.
type Refresher struct {
	Stages     []Stage
	ApplyAfter time.Duration

	logger *zap.Logger

	mu     sync.Mutex
	rng    *rand.Rand
	status string
	active bool
}

// NewRefresher creates a refresher with the default pacing. A nil rng uses
// a randomly seeded PCG source.
func NewRefresher(rng *rand.Rand, logger *zap.Logger) *Refresher {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Refresher{
		Stages:     DefaultStages,
		ApplyAfter: ApplyAfter,
		logger:     logger,
		rng:        rng,
		status:     IdleLabel,
	}
}

// Status returns the label currently shown for the refresh control.
func (r *Refresher) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Active reports whether a refresh is in progress.
func (r *Refresher) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// ErrRunning is returned by Run while another refresh is in progress.
var ErrRunning = errors.New("price refresh already running")

// Run walks through the stages, then hands a refresh function to apply.
// Cancelling ctx stops pending stages; the catalog is then left untouched
// and the status returns to idle.
func (r *Refresher) Run(ctx context.Context, apply func(refresh func([]models.MarketTool) []models.MarketTool) error) error {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return ErrRunning
	}
	r.active = true
	r.mu.Unlock()
	defer r.setIdle()

	seq := make(pacing.Sequence, 0, len(r.Stages)+1)
	for _, st := range r.Stages {
		seq = append(seq, pacing.Step{After: st.After, Do: func() { r.setStatus(st.Label) }})
	}

	var applyErr error
	seq = append(seq, pacing.Step{After: r.ApplyAfter, Do: func() {
		applyErr = apply(func(tools []models.MarketTool) []models.MarketTool {
			r.mu.Lock()
			defer r.mu.Unlock()
			return Refresh(tools, r.rng, UpdatedLabel)
		})
	}})

	if err := seq.Run(ctx); err != nil {
		r.logger.Debug("price refresh interrupted", zap.Error(err))
		return err
	}
	return applyErr
}

func (r *Refresher) setStatus(label string) {
	r.mu.Lock()
	r.status = label
	r.mu.Unlock()
}

func (r *Refresher) setIdle() {
	r.mu.Lock()
	r.status = IdleLabel
	r.active = false
	r.mu.Unlock()
}
