package httpclient

import (
	"time"

	"pet-care-portal/internal/platform/logger"

	"github.com/sony/gobreaker"
)

// NewCircuitBreaker crea el breaker del API: abre tras 3 fallas consecutivas
// y vuelve a probar (half-open) después de timeout.
func NewCircuitBreaker(name string, timeout time.Duration, log logger.Logger) *gobreaker.CircuitBreaker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change", map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})
}
