package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(team TeamProvider, maxRetries int) (*Executor, *[]time.Duration) {
	e := NewExecutor(team, maxRetries, 30*time.Second)
	var slept []time.Duration
	e.sleep = func(d time.Duration) { slept = append(slept, d) }
	return e, &slept
}

func TestExecuteSuccessFirstAttempt(t *testing.T) {
	calls := 0
	team := &MockTeamProvider{
		ExecuteTaskFunc: func(ctx context.Context, agentID, task string) (string, error) {
			calls++
			return "result", nil
		},
	}
	e, slept := newTestExecutor(team, 3)

	result, err := e.Execute(context.Background(), "a1", "do the thing", "Architecture Planning")
	require.NoError(t, err)
	assert.Equal(t, "result", result)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)
}

func TestExecuteRetriesThenSucceeds(t *testing.T) {
	calls := 0
	team := &MockTeamProvider{
		ExecuteTaskFunc: func(ctx context.Context, agentID, task string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("transient failure")
			}
			return "third time lucky", nil
		},
	}
	e, slept := newTestExecutor(team, 3)

	result, err := e.Execute(context.Background(), "a1", "do the thing", "Code Development")
	require.NoError(t, err)
	assert.Equal(t, "third time lucky", result)
	assert.Equal(t, 3, calls)
	// Two short delays before the third attempt.
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second}, *slept)
}

func TestExecuteRateLimitBackoffSchedule(t *testing.T) {
	calls := 0
	team := &MockTeamProvider{
		ExecuteTaskFunc: func(ctx context.Context, agentID, task string) (string, error) {
			calls++
			return "", errors.New("rate_limit exceeded, try later")
		},
	}
	e, slept := newTestExecutor(team, 3)

	result, err := e.Execute(context.Background(), "a1", "do the thing", "Architecture Planning")
	require.NoError(t, err)
	assert.Equal(t, architectureFallback, result)
	assert.Equal(t, 3, calls)
	// 30s then 60s; no sleep after the final attempt, 90s total.
	assert.Equal(t, []time.Duration{30 * time.Second, 60 * time.Second}, *slept)

	var total time.Duration
	for _, d := range *slept {
		total += d
	}
	assert.Equal(t, 90*time.Second, total)
}

func TestExecute429IsRateLimited(t *testing.T) {
	team := &MockTeamProvider{
		ExecuteTaskFunc: func(ctx context.Context, agentID, task string) (string, error) {
			return "", errors.New("HTTP 429 Too Many Requests")
		},
	}
	e, slept := newTestExecutor(team, 2)

	_, err := e.Execute(context.Background(), "a1", "do the thing", "UI/UX Design")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{30 * time.Second}, *slept)
}

func TestExecuteExhaustionReturnsFallbackNotError(t *testing.T) {
	team := &MockTeamProvider{
		ExecuteTaskFunc: func(ctx context.Context, agentID, task string) (string, error) {
			return "", errors.New("permanently broken")
		},
	}

	for _, tc := range []struct {
		phase string
		want  string
	}{
		{"Architecture Planning", architectureFallback},
		{"UI/UX Design", designFallback},
		{"Code Development", developmentFallback},
		{"Code Fix", developmentFallback},
		{"Testing and Validation", testingFallback},
	} {
		e, _ := newTestExecutor(team, 2)
		result, err := e.Execute(context.Background(), "a1", "build an app", tc.phase)
		require.NoError(t, err, tc.phase)
		assert.Equal(t, tc.want, result, tc.phase)
	}
}

func TestExecuteUnknownPhaseFallbackEchoesTask(t *testing.T) {
	team := &MockTeamProvider{
		ExecuteTaskFunc: func(ctx context.Context, agentID, task string) (string, error) {
			return "", errors.New("nope")
		},
	}
	e, _ := newTestExecutor(team, 1)

	result, err := e.Execute(context.Background(), "a1", "summarize the project", "Documentation")
	require.NoError(t, err)
	assert.Contains(t, result, "Fallback result for Documentation")
	assert.Contains(t, result, "summarize the project")
}

func TestExecuteContractViolations(t *testing.T) {
	team := &MockTeamProvider{}

	e, _ := newTestExecutor(team, 0)
	_, err := e.Execute(context.Background(), "a1", "task", "Architecture Planning")
	assert.Error(t, err)

	e, _ = newTestExecutor(team, 3)
	_, err = e.Execute(context.Background(), "a1", "   ", "Architecture Planning")
	assert.Error(t, err)
}

func TestExecuteSingleRetryNeverSleeps(t *testing.T) {
	team := &MockTeamProvider{
		ExecuteTaskFunc: func(ctx context.Context, agentID, task string) (string, error) {
			return "", errors.New("rate_limit")
		},
	}
	e, slept := newTestExecutor(team, 1)

	_, err := e.Execute(context.Background(), "a1", "task", "Testing and Validation")
	require.NoError(t, err)
	assert.Empty(t, *slept)
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, isRateLimited(errors.New("RATE_LIMIT hit")))
	assert.True(t, isRateLimited(errors.New("status code 429")))
	assert.False(t, isRateLimited(errors.New("connection refused")))
}
