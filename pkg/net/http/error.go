package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Fields  any    `json:"fields,omitempty"`
}

func (e ErrorResponse) Error() string {
	return e.Message
}

// RespondError writes a structured error response with the status as its code.
func RespondError(c *fiber.Ctx, status int, title, message string) error {
	return WriteError(c, status, ErrorResponse{
		Code:    strconv.Itoa(status),
		Title:   title,
		Message: message,
	})
}

// WriteError writes body with the given status.
func WriteError(c *fiber.Ctx, status int, body ErrorResponse) error {
	if body.Message == "" {
		body.Message = http.StatusText(status)
	}

	return JSONResponse(c, status, body)
}

// WithError renders err through the single error contract of the API.
// Business errors keep their code; anything unrecognised becomes a generic 500.
func WithError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	status, body := errorToResponse(err)

	return WriteError(c, status, body)
}

func errorToResponse(err error) (int, ErrorResponse) {
	var (
		notFound      pkg.EntityNotFoundError
		validation    pkg.ValidationError
		knownFields   pkg.ValidationKnownFieldsError
		external      pkg.ExternalServiceError
		response      pkg.ResponseError
		invalidState  pkg.InvalidStateError
		errorResponse ErrorResponse
		fiberErr      *fiber.Error
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, ErrorResponse{Code: notFound.Code, Title: notFound.Title, Message: notFound.Error()}
	case errors.As(err, &knownFields):
		return http.StatusBadRequest, ErrorResponse{
			Code:    knownFields.Code,
			Title:   knownFields.Title,
			Message: knownFields.Message,
			Fields:  knownFields.Fields,
		}
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrorResponse{Code: validation.Code, Title: validation.Title, Message: validation.Message}
	case errors.As(err, &external):
		return http.StatusBadGateway, ErrorResponse{
			Code:    external.Code,
			Title:   "Remote Service Failure",
			Message: external.Service + " is unavailable",
		}
	case errors.As(err, &response):
		return http.StatusBadGateway, ErrorResponse{
			Code:    response.Code,
			Title:   "Unexpected Remote Response",
			Message: response.Service + " returned status " + strconv.Itoa(response.ActualStatus),
		}
	case errors.As(err, &invalidState):
		return http.StatusInternalServerError, ErrorResponse{Code: invalidState.Code, Title: invalidState.Title, Message: invalidState.Message}
	case errors.As(err, &errorResponse):
		status, convErr := strconv.Atoi(errorResponse.Code)
		if convErr != nil || status < http.StatusContinue || status > 599 {
			status = http.StatusInternalServerError
		}

		return status, errorResponse
	case errors.As(err, &fiberErr):
		return fiberErr.Code, ErrorResponse{
			Code:    strconv.Itoa(fiberErr.Code),
			Title:   "request_failed",
			Message: fiberErr.Message,
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Code:    constant.ErrInternalServer.Error(),
		Title:   "internal_error",
		Message: "An internal error occurred",
	}
}
