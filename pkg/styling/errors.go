package styling

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks
var (
	ErrSchema        = errors.New("styling: malformed style object")
	ErrSink          = errors.New("styling: sink rejected rule")
	ErrConfiguration = errors.New("styling: not configured")
)

// SchemaError reports a malformed style object
type SchemaError struct {
	// Path is the key path of the offending entry, e.g. ":hover.color"
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("styling: invalid style object: %s", e.Reason)
	}
	return fmt.Sprintf("styling: invalid style object at %q: %s", e.Path, e.Reason)
}

// Is lets errors.Is match ErrSchema
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

func schemaErrorf(path, format string, args ...any) *SchemaError {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// SinkError reports that a sink refused to insert a rule. The class name is
// not marked as inserted, so a later Commit retries it.
type SinkError struct {
	ClassName string
	Rule      string
	Err       error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("styling: insert %s failed: %v", e.ClassName, e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrSink
func (e *SinkError) Is(target error) bool {
	return target == ErrSink
}

// ConfigurationError reports that a required collaborator was not supplied
type ConfigurationError struct {
	What string
}

func (e *ConfigurationError) Error() string {
	return "styling: " + e.What
}

// Is lets errors.Is match ErrConfiguration
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
