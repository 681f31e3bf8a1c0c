package logs_models

import (
	"fmt"
	"strconv"
	"strings"
)

// LogState is persisted by ordinal. Transitions between states are enforced
// by callers; this layer only stores and filters.
type LogState int

const (
	LogStatePending    LogState = 0
	LogStateInProgress LogState = 1
	LogStateCompleted  LogState = 2
	LogStateFailed     LogState = 3
	LogStateTimeout    LogState = 4
	LogStateCancelled  LogState = 5
)

var logStateNames = [...]string{
	LogStatePending:    "Pending",
	LogStateInProgress: "InProgress",
	LogStateCompleted:  "Completed",
	LogStateFailed:     "Failed",
	LogStateTimeout:    "Timeout",
	LogStateCancelled:  "Cancelled",
}

func AllLogStates() []LogState {
	return []LogState{
		LogStatePending,
		LogStateInProgress,
		LogStateCompleted,
		LogStateFailed,
		LogStateTimeout,
		LogStateCancelled,
	}
}

func (s LogState) IsValid() bool {
	return s >= LogStatePending && s <= LogStateCancelled
}

// IsTerminal reports whether the invocation has finished, successfully or not.
func (s LogState) IsTerminal() bool {
	switch s {
	case LogStateCompleted, LogStateFailed, LogStateTimeout, LogStateCancelled:
		return true
	default:
		return false
	}
}

func (s LogState) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("LogState(%d)", int(s))
	}

	return logStateNames[s]
}

// ParseLogState accepts the state name (case-insensitive) or its ordinal.
func ParseLogState(value string) (LogState, error) {
	trimmed := strings.TrimSpace(value)

	for _, state := range AllLogStates() {
		if strings.EqualFold(state.String(), trimmed) {
			return state, nil
		}
	}

	if ordinal, err := strconv.Atoi(trimmed); err == nil && LogState(ordinal).IsValid() {
		return LogState(ordinal), nil
	}

	return 0, fmt.Errorf("unknown log state: %q", value)
}

func TerminalLogStates() []LogState {
	return []LogState{LogStateCompleted, LogStateFailed, LogStateTimeout, LogStateCancelled}
}
