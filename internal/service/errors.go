package service

type ErrorCode string

const (
	ErrorCodeUnspecified ErrorCode = "UNSPECIFIED"
	ErrorCodeInvalidBody ErrorCode = "INVALID_BODY"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func (e *Error) Error() string {
	return e.Message
}
