package services

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// ServiceError carries the HTTP status a failure maps to. Services return
// these as plain error values; controllers unwrap the code at the boundary.
type ServiceError struct {
	Code    int
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NotFound(what string) *ServiceError {
	return &ServiceError{Code: http.StatusNotFound, Message: what + " not found"}
}

func Conflict(msg string) *ServiceError {
	return &ServiceError{Code: http.StatusConflict, Message: msg}
}

func BadRequest(msg string) *ServiceError {
	return &ServiceError{Code: http.StatusBadRequest, Message: msg}
}

func Internal(msg string) *ServiceError {
	return &ServiceError{Code: http.StatusInternalServerError, Message: msg}
}

// InsufficientQuestionsError aborts a simulator create or update when a
// category cannot cover its quota.
type InsufficientQuestionsError struct {
	CategoryID uint
	Requested  int
	Available  int64
}

func (e *InsufficientQuestionsError) Error() string {
	return fmt.Sprintf("category %d has %d questions available, but %d were requested",
		e.CategoryID, e.Available, e.Requested)
}

// MalformedDocument reports a document whose content field is present but not
// a node list.
func MalformedDocument(where string) *ServiceError {
	return &ServiceError{Code: http.StatusBadRequest, Message: "malformed document: " + where}
}

// StorageFailure wraps a blob-storage client error. The client identified the
// failure, so it maps to 400, mirroring how persistence constraint errors do.
func StorageFailure(err error) *ServiceError {
	return &ServiceError{Code: http.StatusBadRequest, Message: "storage error: " + err.Error()}
}

// StatusOf resolves the HTTP status for any error a service returned.
func StatusOf(err error) int {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	var iq *InsufficientQuestionsError
	if errors.As(err, &iq) {
		return http.StatusBadRequest
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
