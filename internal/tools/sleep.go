package tools

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// SleepTool pauses for a number of seconds. The one built-in tool with no
// external collaborator behind it.
type SleepTool struct{}

// NewSleepTool creates the sleep utility.
func NewSleepTool() *SleepTool { return &SleepTool{} }

func (s *SleepTool) Name() string        { return "sleep" }
func (s *SleepTool) Description() string { return "Pause execution for a given number of seconds" }

// Execute sleeps for args["seconds"] (default 1), honoring context
// cancellation.
func (s *SleepTool) Execute(ctx context.Context, args map[string]string) (string, error) {
	seconds := 1.0
	if v, ok := args["seconds"]; ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			return "", fmt.Errorf("invalid seconds value %q", v)
		}
		seconds = parsed
	}

	select {
	case <-time.After(time.Duration(seconds * float64(time.Second))):
		return fmt.Sprintf("slept for %g seconds", seconds), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
