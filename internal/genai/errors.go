package genai

import "errors"

var (
	// ErrOverloaded is the provider's transient overload signal. Calls are
	// retried with backoff before it is surfaced.
	ErrOverloaded = errors.New("provider_overloaded")
	// ErrBadPayload means the provider answered but the payload did not parse
	// into the requested structure. Never retried.
	ErrBadPayload = errors.New("bad_payload")
	// ErrNoImage means the provider answered an image request without inline
	// image data.
	ErrNoImage = errors.New("no_image")
)
