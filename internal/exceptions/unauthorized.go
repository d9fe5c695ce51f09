package exceptions

import "net/http"

var ErrMissingUserID = newException(
	http.StatusUnauthorized,
	"unauthorized",
	"Unauthorized",
	"A user ID must be provided via the X-User-Id header.",
)
