package exceptions

import "net/http"

var ErrInternal = newException(
	http.StatusInternalServerError,
	"internal-server-error",
	"Internal Server Error",
	"An unexpected error occurred on the server.",
)

// FromStatus builds a generic problem for statuses raised outside the task handlers,
// such as unknown routes.
func FromStatus(status int, detail string) *Exception {
	switch {
	case status >= http.StatusInternalServerError:
		return ErrInternal
	case status == http.StatusRequestEntityTooLarge:
		return ErrPayloadTooLarge
	}
	return newException(status, "http-error", http.StatusText(status), detail)
}
