package exceptions

import "net/http"

func Validation(issues []Issue) *Exception {
	e := newException(
		http.StatusBadRequest,
		"validation-error",
		"Validation Error",
		"The request body or parameters are invalid.",
	)
	e.Issues = issues
	return e
}
