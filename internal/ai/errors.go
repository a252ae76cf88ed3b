package ai

import "errors"

// ErrUnavailable is returned when the provider has no API key configured.
var ErrUnavailable = errors.New("ai provider unavailable")
