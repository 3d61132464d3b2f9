package breaker

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

// CircuitBreaker простая реализация circuit breaker паттерна.
// Открытый контур сводится к domain.ErrDownstreamUnavailable: для
// оркестратора это та же недоступность внешнего сервиса, что и таймаут.
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration

	mu          sync.Mutex
	failures    int
	lastFailure time.Time
	state       CircuitState
	logger      *log.Entry
}

type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// NewCircuitBreaker создаёт новый circuit breaker.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, logger *log.Entry) *CircuitBreaker {
	if logger == nil {
		logger = log.New().WithField("component", "circuit-breaker")
	}

	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        CircuitClosed,
		logger:       logger,
	}
}

// Execute выполняет операцию через circuit breaker.
// Бизнес-ошибки (нехватка стока, конфликт отгрузки) не считаются отказами:
// контур реагирует только на недоступность внешнего сервиса.
func (cb *CircuitBreaker) Execute(operation string, fn func() error) error {
	if err := cb.beforeCall(operation); err != nil {
		return err
	}

	err := fn()
	cb.afterCall(operation, err)
	return err
}

func (cb *CircuitBreaker) beforeCall(operation string) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen {
		if time.Since(cb.lastFailure) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
			cb.logger.WithField("operation", operation).Info("Circuit breaker half-open")
		} else {
			return fmt.Errorf("%w: circuit breaker is open", domain.ErrDownstreamUnavailable)
		}
	}
	return nil
}

func (cb *CircuitBreaker) afterCall(operation string, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil && domain.IsDownstreamUnavailable(err) {
		cb.failures++
		cb.lastFailure = time.Now()

		if cb.state == CircuitHalfOpen || cb.failures >= cb.maxFailures {
			cb.state = CircuitOpen
			cb.logger.WithFields(log.Fields{
				"operation": operation,
				"failures":  cb.failures,
			}).Warn("Circuit breaker opened")
		}
		return
	}

	// Успешное выполнение или бизнес-ошибка — сбрасываем счётчик
	if cb.state == CircuitHalfOpen {
		cb.state = CircuitClosed
		cb.logger.WithField("operation", operation).Info("Circuit breaker closed")
	}
	cb.failures = 0
}

// State возвращает текущее состояние контура.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
