package dto

import "time"

// ErrorResponse is the standard error payload returned by the API.
//
// It implements the error interface so it can be passed through gin's
// error chain as well as rendered directly as JSON.
type ErrorResponse struct {
	Message      string    `json:"message" example:"no snapshot available"`
	ErrorDetails string    `json:"error_details,omitempty" example:"open data/prices.json: no such file or directory"`
	Timestamp    time.Time `json:"timestamp" example:"2025-09-12T21:00:00Z"`
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
// When err is non-nil its message is copied into ErrorDetails.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
