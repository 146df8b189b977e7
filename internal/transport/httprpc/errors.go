package httprpc

import (
	"errors"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes raised by the transport itself.
const (
	TextCodeBadRequest   = "EDITOR_RPC_BAD_REQUEST"
	TextCodeUnknownOp    = "EDITOR_RPC_UNKNOWN_OPERATION"
	TextCodeUnavailable  = "EDITOR_RPC_UNAVAILABLE"
	TextCodeBadResponse  = "EDITOR_RPC_BAD_RESPONSE"
	TextCodeInternal     = "EDITOR_RPC_INTERNAL"
	defaultErrorCategory = goerrors.CategoryInternal
)

type errorBody struct {
	Category string `json:"category"`
	TextCode string `json:"textCode,omitempty"`
	Message  string `json:"message"`
}

func encodeError(err error) (int, errorBody) {
	body := errorBody{
		Category: string(defaultErrorCategory),
		TextCode: TextCodeInternal,
		Message:  "internal error",
	}
	if err == nil {
		return http.StatusInternalServerError, body
	}
	body.Message = err.Error()
	var typed *goerrors.Error
	if errors.As(err, &typed) {
		body.Category = string(typed.Category)
		body.TextCode = typed.TextCode
		if typed.Message != "" {
			body.Message = typed.Message
		}
	}
	return statusFor(goerrors.Category(body.Category)), body
}

func statusFor(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeError rebuilds a categorized error from a response body so callers
// can keep using goerrors.IsCategory across the wire.
func decodeError(status int, body errorBody) error {
	category := goerrors.Category(body.Category)
	if body.Category == "" {
		category = categoryForStatus(status)
	}
	message := body.Message
	if message == "" {
		message = http.StatusText(status)
	}
	wrapped := goerrors.Wrap(errors.New(message), category, message)
	if body.TextCode != "" {
		wrapped = wrapped.WithTextCode(body.TextCode)
	}
	return wrapped
}

func categoryForStatus(status int) goerrors.Category {
	switch status {
	case http.StatusBadRequest:
		return goerrors.CategoryBadInput
	case http.StatusNotFound:
		return goerrors.CategoryNotFound
	case http.StatusConflict:
		return goerrors.CategoryConflict
	default:
		return defaultErrorCategory
	}
}

func badRequest(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "malformed request body").WithTextCode(TextCodeBadRequest)
}
