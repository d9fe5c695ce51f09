package exceptions

import "net/http"

var ErrRateLimitExceeded = newException(
	http.StatusTooManyRequests,
	"too-many-requests",
	"Too Many Requests",
	"rate limit exceeded",
)
