package web

import "net/http"

// UserReadableError carries a message safe to show on the page and the http
// status to serve it with.
type UserReadableError struct {
	Msg        string
	StatusCode int
}

func (err *UserReadableError) Error() string {
	return err.Msg
}

var ErrorBadDate = UserReadableError{
	Msg:        "Please enter the last service date as YYYY-MM-DD.",
	StatusCode: http.StatusBadRequest,
}

var ErrorBadNumeric = UserReadableError{
	Msg:        "Please enter valid numbers for the vehicle details.",
	StatusCode: http.StatusBadRequest,
}

var ErrorUnknownCategory = UserReadableError{
	Msg:        "Something went wrong while encoding the vehicle details. Please report this.",
	StatusCode: http.StatusUnprocessableEntity,
}

var ErrorPredictionFailed = UserReadableError{
	Msg:        "The prediction could not be computed for this request. Please try again.",
	StatusCode: http.StatusInternalServerError,
}
