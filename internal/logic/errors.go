package logic

import (
	"errors"
	"fmt"
)

// User-facing messages
const (
	MsgPlayerNameRequired = "Player name is required."
	MsgModelRequired      = "No model selected."
	MsgCatalogUnavailable = "Could not load the models. Check the connection with the scoring service."
	MsgInvalidOption      = "Select a valid option."
	MsgReportUnavailable  = "Could not load the player's history."
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrUnknownModel       = errors.New("unknown model")
	ErrCatalogUnavailable = errors.New("model catalog unavailable")
	ErrNoModelSelected    = errors.New(MsgModelRequired)
	ErrUnknownField       = errors.New("unknown field")
	ErrInvalidTransition  = errors.New("action not available on this screen")
)

// ValidationError is a client-side form rejection. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// FieldConfigError reports a field flagged categorical for which no option list
// exists, either from the service or from the local fallback table.
type FieldConfigError struct {
	Field  string
	Reason string
}

func (e *FieldConfigError) Error() string {
	return fmt.Sprintf("field %q misconfigured: %s", e.Field, e.Reason)
}
