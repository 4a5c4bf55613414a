package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"appforge/internal/logging"
)

const shortRetryDelay = 5 * time.Second

// Executor wraps a single agent invocation with bounded retries. Rate
// limited calls back off exponentially; any other failure retries after a
// short fixed delay. When the budget is exhausted the executor returns
// deterministic fallback content for the phase instead of an error, so a
// transient outage never blocks the pipeline.
type Executor struct {
	team       TeamProvider
	maxRetries int
	baseDelay  time.Duration

	// sleep is swapped for a recorder in tests.
	sleep func(time.Duration)
}

// NewExecutor creates an executor with the given retry budget and base
// rate-limit backoff (30s gives the 30/60/120 schedule).
func NewExecutor(team TeamProvider, maxRetries int, baseDelay time.Duration) *Executor {
	return &Executor{
		team:       team,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		sleep:      time.Sleep,
	}
}

// Execute runs one task through the capability port under the retry
// policy. The only error it returns is a contract violation (empty task or
// a retry budget below one); every capability failure is absorbed into the
// fallback result for phaseLabel.
func (e *Executor) Execute(ctx context.Context, agentID, task, phaseLabel string) (string, error) {
	if e.maxRetries < 1 {
		return "", fmt.Errorf("max retries must be at least 1, got %d", e.maxRetries)
	}
	if strings.TrimSpace(task) == "" {
		return "", fmt.Errorf("task must not be empty")
	}

	log := logging.L()
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		log.Info("executing phase task",
			zap.String("phase", phaseLabel),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", e.maxRetries))

		result, err := e.team.ExecuteTask(ctx, agentID, task)
		if err == nil {
			log.Info("phase task completed", zap.String("phase", phaseLabel))
			return result, nil
		}

		lastAttempt := attempt == e.maxRetries-1
		if isRateLimited(err) {
			wait := e.baseDelay << attempt
			log.Warn("rate limited",
				zap.String("phase", phaseLabel),
				zap.Duration("backoff", wait),
				zap.Error(err))
			if !lastAttempt {
				e.sleep(wait)
			}
		} else {
			log.Warn("phase task failed",
				zap.String("phase", phaseLabel),
				zap.Error(err))
			if !lastAttempt {
				e.sleep(shortRetryDelay)
			}
		}
	}

	log.Warn("all retries failed, using fallback result", zap.String("phase", phaseLabel))
	return FallbackResult(phaseLabel, task), nil
}

// isRateLimited classifies an error as a rate limit by message inspection;
// providers surface these as "rate_limit" tokens or an HTTP 429 marker.
func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate_limit") || strings.Contains(msg, "429")
}
