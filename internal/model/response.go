package model

// Response is the envelope every endpoint answers with.
type Response struct {
	IsSuccessful bool   `json:"isSuccessful"`
	Message      string `json:"message"`
	Data         any    `json:"data,omitempty"`
}
