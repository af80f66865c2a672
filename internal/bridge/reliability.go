package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xela07ax/paulis-place/internal/infra"
	"github.com/xela07ax/paulis-place/internal/metrics"
)

// Guard ограничивает поток запросов к upstream и отсекает его при серии сбоев.
// Ответ upstream с любым статусом считается успехом: сбой — это только транспорт.
type Guard struct {
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func NewGuard(name string, cfg infra.BridgeConfig, m *metrics.Metrics, logger *zap.Logger) *Guard {
	threshold := cfg.CBConsecutiveFailures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.CBMaxRequests,
		Interval:    cfg.CBInterval,
		Timeout:     cfg.CBTimeout, // через сколько CB попробует полуоткрыться
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > threshold
		},
		// Брошенный клиентом запрос ничего не говорит о здоровье upstream
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrCallerCanceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("upstream circuit breaker state changed",
				zap.String("upstream", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
			if m != nil {
				m.CircuitBreakerState.WithLabelValues(name).Set(breakerGauge(to))
			}
		},
	})

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	if m != nil {
		m.CircuitBreakerState.WithLabelValues(name).Set(0)
	}

	return &Guard{
		cb:      cb,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Execute: сначала лимитер, затем предохранитель
func (g *Guard) Execute(ctx context.Context, fn func() error) error {
	if err := g.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrCallerCanceled, ctxErr)
		}
		return fmt.Errorf("rate limit exceeded: %w", err)
	}
	_, err := g.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

func (g *Guard) State() gobreaker.State {
	return g.cb.State()
}

func breakerGauge(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
