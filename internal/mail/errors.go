package mail

import "fmt"

const (
	codeInvalid      = "invalid"
	codeProvisioning = "provisioning"
	codeSend         = "send"
)

// Error represents a mail-specific error with a code and message.
// The handler layer collapses all of these into a generic failure response;
// the code exists for logging and metrics only.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code for logging and metrics.
func ErrorCode(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

func invalidErr(message string) *Error {
	return &Error{Code: codeInvalid, Message: message}
}

func provisioningErr(message string, err error) *Error {
	return &Error{Code: codeProvisioning, Message: message, Err: err}
}

func sendErr(message string, err error) *Error {
	return &Error{Code: codeSend, Message: message, Err: err}
}
