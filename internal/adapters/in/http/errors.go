package http

import (
	"errors"
	"net/http"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/model/taskoffer"
	"fooddispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// errorResponse is the JSON error body of every failed request.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// respondError maps a domain or application error to an HTTP status.
//
// Mapping:
//   - missing aggregate                         -> 404
//   - bad input (invalid/required/out of range) -> 400
//   - role not allowed to drive the transition  -> 403
//   - payment not captured                      -> 402
//   - transition conflicts                      -> 409
//   - offer responses that lost their window    -> 410
//   - everything else                           -> 500
func respondError(ctx echo.Context, err error) error {
	code := statusForError(err)

	message := err.Error()
	if code == http.StatusInternalServerError {
		// Do not leak internals; the error is logged by the caller.
		message = "internal error"
	}

	return ctx.JSON(code, errorResponse{Code: code, Message: message})
}

func statusForError(err error) int {
	var notFound *errs.ObjectNotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}

	switch {
	case errors.Is(err, order.ErrActorNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, commands.ErrPaymentNotCaptured):
		return http.StatusPaymentRequired
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrCancellationNotAllowed):
		return http.StatusConflict
	case errors.Is(err, taskoffer.ErrStaleOffer),
		errors.Is(err, taskoffer.ErrOfferExpired),
		errors.Is(err, taskoffer.ErrOfferNoLongerAvailable):
		return http.StatusGone
	}

	var invalid *errs.ValueIsInvalidError
	var required *errs.ValueIsRequiredError
	var outOfRange *errs.ValueIsOutOfRangeError
	if errors.As(err, &invalid) || errors.As(err, &required) || errors.As(err, &outOfRange) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
