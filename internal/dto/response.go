package dto

import "time"

// BasicResponse is the envelope every endpoint answers with.
type BasicResponse struct {
	Ok        bool      `json:"ok"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBasicResponse(ok bool, details string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewErrorResponse reports err's message as a failed response.
func NewErrorResponse(err error) BasicResponse {
	if err == nil {
		return NewBasicResponse(false, "")
	}
	return NewBasicResponse(false, err.Error())
}
