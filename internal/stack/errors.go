package stack

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every configuration problem the session
// reports. Configuration errors are never fatal: the session keeps ticking
// without spawning until the problem is corrected.
var ErrConfiguration = errors.New("configuration error")

// ConfigError describes a configuration problem.
type ConfigError struct {
	Field  string
	Reason string
	Err    error // Underlying cause, may be nil
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stack: %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("stack: %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrConfiguration) match.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
