package logs_services

import (
	"errors"
	"fmt"
)

var (
	ErrLogHeaderNotFound = errors.New("log header not found")
	ErrInvalidRequest    = errors.New("invalid request")
)

func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}
