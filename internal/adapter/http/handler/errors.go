package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/usecase"
)

// Error codes returned alongside detail
const (
	CodeModelNotLoaded = "MODEL_NOT_LOADED"
	CodeInference      = "INFERENCE_ERROR"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternal       = "INTERNAL_ERROR"
)

// DetailModelNotLoaded is the wire text of a prediction without a model
const DetailModelNotLoaded = "Model not loaded"

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapUsecaseError maps usecase errors to HTTP error responses.
// Both prediction failures are 500s; inference failures expose the
// underlying message.
func MapUsecaseError(err error) ErrorResponse {
	var inferenceErr *usecase.InferenceError

	switch {
	case errors.Is(err, usecase.ErrModelNotLoaded):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeModelNotLoaded,
			Message:    DetailModelNotLoaded,
		}
	case errors.As(err, &inferenceErr):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInference,
			Message:    inferenceErr.Error(),
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInternal,
			Message:    "internal server error",
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
func HandleUsecaseError(c *gin.Context, err error) {
	errResp := MapUsecaseError(err)
	respondError(c, errResp.StatusCode, errResp.Code, errResp.Message)
}

// HandleInvalidRequest handles a request body that could not be decoded.
func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, CodeInvalidRequest, message)
}
