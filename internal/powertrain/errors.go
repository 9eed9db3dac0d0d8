package powertrain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a tuning value that would make the model undefined.
	ErrInvalidConfig = errors.New("powertrain: invalid config")

	// ErrInvalidTimestep indicates a non-positive or non-finite dt.
	ErrInvalidTimestep = errors.New("powertrain: timestep must be positive and finite")
)

// ConfigError names the offending field of a rejected Config.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("powertrain: invalid config: %s=%g: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
