package domain

// ==== WebSocket Constants ====

// MaxMessageSize is the maximum allowed WebSocket frame size in bytes
const MaxMessageSize = 4096

// ==== Rate Limit Constants ====

const (
	// DefaultRateLimitAPI is the default rate limit for API endpoints (requests/sec)
	DefaultRateLimitAPI = 10

	// DefaultRateLimitWS is the default rate limit for WebSocket upgrades (req/sec)
	DefaultRateLimitWS = 5
)

// ==== Presentation Constants ====

// TimeLayout is the hour:minute form rendered into outbound frames.
// Formatting happens server-side at append/projection time, so the
// string a consumer sees is fixed at emission.
const TimeLayout = "15:04"

// FallbackNameDigits is how many trailing identity characters make up
// the default display name when an auth frame carries no name
const FallbackNameDigits = 4
