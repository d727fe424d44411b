package event

import "errors"

var (
	// ErrUnrecognizedEventKind is returned when the event kind is not one of
	// the four message kinds. No event is constructed.
	ErrUnrecognizedEventKind = errors.New("unrecognized event kind")

	// ErrMalformedPayload is returned when identity fields the event kind
	// requires are missing or unparseable.
	ErrMalformedPayload = errors.New("malformed payload")

	ErrInvalidReactionType = errors.New("invalid reaction type")
)
