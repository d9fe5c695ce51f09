package exceptions

import "net/http"

var ErrTaskNotFound = newException(http.StatusNotFound, "not-found", "Not Found", "Task not found")
