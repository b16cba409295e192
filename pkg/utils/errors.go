package utils

import (
	"errors"
	"fmt"
)

const (
	CodeConnectivity      = 1001
	CodeMutationEmpty     = 2001
	CodeMutationException = 2002
	CodeValidation        = 3001
	CodeBusy              = 4001
	CodeNotConnected      = 4002
	CodeSystem            = 5001
)

// User-facing messages. Driver error text never reaches these.
const (
	MsgConnectFailed = "Failed to connect. Check your credentials and try again."
	MsgLabelRequired = "Label or type is required."
	MsgFillAllFields = "Please fill all fields for relationship creation."
	MsgAdded         = "Successfully added."
	MsgAddFailed     = "Failed to add. Please check input."
	MsgAddError      = "Error occurred while adding."
	MsgBusy          = "Operation already in progress."
	MsgNotConnected  = "Not connected. Please connect first."
	MsgUnknownLabel  = "Unknown node label."
	MsgInternal      = "Internal error."
)

type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Details holds the underlying cause for logs only.
	Details string `json:"-"`
	cause   error
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

func newAPIError(code int, message string, err error) *APIError {
	apiErr := &APIError{Code: code, Message: message, cause: err}
	if err != nil {
		apiErr.Details = err.Error()
	}
	return apiErr
}

func NewValidationError(message string) *APIError {
	return newAPIError(CodeValidation, message, nil)
}

func NewConnectivityError(err error) *APIError {
	return newAPIError(CodeConnectivity, MsgConnectFailed, err)
}

func NewMutationEmptyError() *APIError {
	return newAPIError(CodeMutationEmpty, MsgAddFailed, nil)
}

func NewMutationError(err error) *APIError {
	return newAPIError(CodeMutationException, MsgAddError, err)
}

func NewBusyError() *APIError {
	return newAPIError(CodeBusy, MsgBusy, nil)
}

func NewNotConnectedError() *APIError {
	return newAPIError(CodeNotConnected, MsgNotConnected, nil)
}

func NewSystemError(err error) *APIError {
	return newAPIError(CodeSystem, MsgInternal, err)
}

// CodeOf returns the APIError code in err's chain, or CodeSystem.
func CodeOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return CodeSystem
}
