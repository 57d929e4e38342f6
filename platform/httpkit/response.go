// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"tourism_portal_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

const (
	msgInternal       = "Internal server error"
	msgInvalidRequest = "Invalid request"
)

// ErrorResponse is the standard error response format. The web client shows
// Message to the user verbatim.
type ErrorResponse struct {
	Message string `json:"message"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Created sends a 201 Created response with the given payload.
func Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Message: message})
}

// AbortError stops the handler chain with an error response.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message})
}

// BindJSON decodes the request body into req. A body cut off by BodyLimit
// (chunked uploads carry no Content-Length to reject up front) answers 413;
// any other decode failure answers 400. Returns false when a response was
// written.
func BindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Error(c, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		return false
	}
	Error(c, http.StatusBadRequest, msgInvalidRequest)
	return false
}

// HandleError maps domain errors to HTTP responses.
// A typed *apperr.Error (possibly wrapped) uses its Kind to pick the status.
// Internal and untyped errors become a 500 whose body never carries the
// cause; the cause is attached to the gin context so RequestLogger logs it.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	domainErr, ok := apperr.As(err)
	if !ok {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, msgInternal)
		return true
	}

	status := domainErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		message := domainErr.Message
		if message == "" {
			message = msgInternal
		}
		Error(c, status, message)
		return true
	}

	Error(c, status, domainErr.Message)
	return true
}
