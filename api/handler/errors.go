package handler

import (
	"net/http"

	"github.com/fastygo/envelope/api/transport"
	"github.com/fastygo/envelope/domain"
)

const internalMessage = "internal error"

var codeByErrorCode = map[domain.ErrorCode]int{
	domain.ErrCodeInvalid:          http.StatusBadRequest,
	domain.ErrCodeUnauthorized:     http.StatusUnauthorized,
	domain.ErrCodeForbidden:        http.StatusForbidden,
	domain.ErrCodeNotFound:         http.StatusNotFound,
	domain.ErrCodeMethodNotAllowed: http.StatusMethodNotAllowed,
	domain.ErrCodeConflict:         http.StatusConflict,
	domain.ErrCodeInternal:         http.StatusInternalServerError,
}

// FailureFor maps an error onto a failure outcome. The logical code follows
// the domain classification; unclassified errors become 500 and their text
// is not exposed.
func FailureFor(err error) transport.Failure {
	reason := domain.CodeOf(err)
	code, ok := codeByErrorCode[reason]
	if !ok {
		reason = domain.ErrCodeInternal
		code = http.StatusInternalServerError
	}

	message := internalMessage
	if reason != domain.ErrCodeInternal {
		message = err.Error()
	}

	return transport.NewFailure(code, map[string]interface{}{
		"message": message,
		"reason":  string(reason),
	})
}
