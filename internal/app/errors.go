package app

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"paynotify/api"
)

const (
	ErrInternalServer   = "The server encountered a problem and could not process your request"
	ErrInvalidPayload   = "Invalid payload"
	ErrInvalidSignature = "Invalid signature"
	ErrSMSFailed        = "Failed to send SMS"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource not found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

// badRequestResponse echoes the error text; checkout creation failures
// surface the provider's message directly.
func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) invalidPayloadResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusBadRequest, ErrInvalidPayload)
}

func (app *Application) invalidSignatureResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusBadRequest, ErrInvalidSignature)
}

func (app *Application) notificationFailedResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrSMSFailed)
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, errs validator.ValidationErrors) {
	validationErrors := make([]api.ValidationError, 0, len(errs))
	for _, fieldErr := range errs {
		validationErrors = append(validationErrors, api.ValidationError{
			Field: fieldErr.Field(),
			Issue: validationIssue(fieldErr),
		})
	}

	resp := api.ValidationErrorResponse{
		Message:          "Validation failed",
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: validationErrors,
	}

	err := app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func validationIssue(fieldErr validator.FieldError) string {
	switch fieldErr.Field() {
	case "Email":
		if fieldErr.Tag() == "required" {
			return "Email is required"
		}
		return "Invalid email address"
	case "Name":
		return "Name is required"
	case "Amount":
		if fieldErr.Tag() == "required" {
			return "Amount is required"
		}
		return "Amount must be greater than 0"
	}

	return fieldErr.Error()
}
