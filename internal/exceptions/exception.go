package exceptions

const typeBase = "https://example.com/probs/"

// Exception is an error that knows how it is rendered as a problem details response.
type Exception struct {
	Type       string
	Title      string
	Detail     string
	StatusCode int
	Issues     []Issue
}

// Issue describes one invalid field of a request payload.
type Issue struct {
	Path    []string `json:"path"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

func (e *Exception) Error() string {
	return e.Detail
}

func newException(status int, slug, title, detail string) *Exception {
	return &Exception{
		Type:       typeBase + slug,
		Title:      title,
		Detail:     detail,
		StatusCode: status,
	}
}
