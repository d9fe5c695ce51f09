package exceptions

import "net/http"

func Conflict(detail string) *Exception {
	return newException(http.StatusConflict, "conflict", "Conflict", detail)
}
