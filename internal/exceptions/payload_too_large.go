package exceptions

import "net/http"

var ErrPayloadTooLarge = newException(
	http.StatusRequestEntityTooLarge,
	"payload-too-large",
	"Payload Too Large",
	"The request body exceeds the allowed size.",
)
