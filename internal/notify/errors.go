package notify

import "errors"

// errNoFallbackStore is returned when the durable queue was never wired.
var errNoFallbackStore = errors.New("notify: no fallback store configured")
