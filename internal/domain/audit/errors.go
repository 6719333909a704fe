package audit

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("invalid audit configuration")
	ErrInvalidWindow = errors.New("invalid audit window")
)

// ConfigurationError stops a run before it starts.
type ConfigurationError struct {
	Option string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Option, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
