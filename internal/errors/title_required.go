package errors

import "net/http"

var ErrTitleRequired = &Exception{
	Message:    "title is required and must be a string",
	StatusCode: http.StatusBadRequest,
}
