package exceptions

import "net/http"

func BadRequest(detail string) *Exception {
	return newException(http.StatusBadRequest, "bad-request", "Bad Request", detail)
}
