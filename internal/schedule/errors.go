package schedule

import (
	"errors"
	"fmt"
)

var (
	ErrDialogBusy      = errors.New("dialog is already open")
	ErrNotEditing      = errors.New("dialog is not editing an event")
	ErrNoBackReference = errors.New("event has no study session reference")
	ErrNoToggleHandler = errors.New("no completion handler configured")
)

// ConfigurationError reports grid parameters that cannot produce a time axis.
type ConfigurationError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid grid %s %d: %s", e.Field, e.Value, e.Reason)
}

// ValidationError is returned by Dialog.Save when the form cannot be committed.
// The dialog stays open.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}
