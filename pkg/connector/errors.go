package connector

import "fmt"

// MissingFieldError is returned at construction time when a field referenced
// by the connection descriptor is absent from the config.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required connection field %q", e.Field)
}

// UnknownDriverError is returned when no driver is registered for the
// requested db_type.
type UnknownDriverError struct {
	Type      string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown db_type %q\nAvailable drivers: %v\nHint: import the matching pkg/drivers package for its side effects", e.Type, e.Available)
}

// TableExistsError is returned by writes in IfExistsFail mode when the
// destination table already exists.
type TableExistsError struct {
	Table string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("table %q already exists", e.Table)
}
