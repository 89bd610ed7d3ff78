package price

import (
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"solana-trade-sentry/internal/domain"
)

// History bounds.
const (
	DefaultHistoryCapacity = 20
	DefaultMaxPointAge     = 2 * time.Hour

	// Trend parameters: mean of the newest window against the mean of the
	// window before it, with a ±2% dead band.
	trendWindow       = 5
	trendThresholdPct = 2.0
	trendMinPoints    = 3
)

// History is the bounded rolling price history. Points arrive in order; the
// oldest is evicted past capacity, and points older than the age bound are
// evicted at the start of every access, so eviction is part of the access
// path rather than a background sweep.
type History struct {
	mu       sync.Mutex
	points   []domain.PricePoint
	capacity int
	maxAge   time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// HistoryOptions contains configuration for creating a History.
type HistoryOptions struct {
	Capacity int           // Default: DefaultHistoryCapacity
	MaxAge   time.Duration // Default: DefaultMaxPointAge
	Logger   *zap.Logger
	Now      func() time.Time
}

// NewHistory creates an empty price history.
func NewHistory(opts HistoryOptions) *History {
	capacity := opts.Capacity
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxPointAge
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &History{
		points:   make([]domain.PricePoint, 0, capacity),
		capacity: capacity,
		maxAge:   maxAge,
		logger:   logger,
		now:      now,
	}
}

// Add appends a price point. Non-finite or negative prices are logged and
// dropped.
func (h *History) Add(price float64, timestamp time.Time) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		h.logger.Warn("invalid price value rejected", zap.Float64("price", price))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.evictExpired()

	h.points = append(h.points, domain.PricePoint{Price: price, Timestamp: timestamp})
	if len(h.points) > h.capacity {
		h.points = h.points[len(h.points)-h.capacity:]
	}
}

// Points returns a copy of the retained history, oldest first.
func (h *History) Points() []domain.PricePoint {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.evictExpired()

	out := make([]domain.PricePoint, len(h.points))
	copy(out, h.points)
	return out
}

// Trend classifies recent history by comparing the mean of the newest five
// points against the mean of the five before them. Fewer than three points
// is always neutral.
func (h *History) Trend() domain.Trend {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.evictExpired()

	if len(h.points) < trendMinPoints {
		return domain.TrendNeutral
	}

	recent := h.points[maxInt(0, len(h.points)-trendWindow):]
	older := h.points[maxInt(0, len(h.points)-2*trendWindow):maxInt(0, len(h.points)-trendWindow)]
	if len(older) == 0 {
		return domain.TrendNeutral
	}

	recentAvg := meanPrice(recent)
	olderAvg := meanPrice(older)
	if olderAvg == 0 {
		return domain.TrendNeutral
	}

	change := (recentAvg - olderAvg) / olderAvg * 100
	switch {
	case change > trendThresholdPct:
		return domain.TrendUp
	case change < -trendThresholdPct:
		return domain.TrendDown
	default:
		return domain.TrendNeutral
	}
}

// SessionChange returns the percent change from the oldest retained point to
// current. Zero when the history is empty or current is zero.
func (h *History) SessionChange(current float64) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.evictExpired()

	if len(h.points) == 0 || current == 0 {
		return 0
	}
	first := h.points[0].Price
	if first == 0 {
		return 0
	}
	return (current - first) / first * 100
}

// evictExpired drops points older than the age bound. Callers hold h.mu.
func (h *History) evictExpired() {
	cutoff := h.now().Add(-h.maxAge)
	firstValid := 0
	for firstValid < len(h.points) && !h.points[firstValid].Timestamp.After(cutoff) {
		firstValid++
	}
	if firstValid > 0 {
		h.points = h.points[firstValid:]
	}
}

func meanPrice(points []domain.PricePoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Price
	}
	return sum / float64(len(points))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
