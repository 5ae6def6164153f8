package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/usecase"
)

// TriageHandler handles prediction requests
type TriageHandler struct {
	triageUC usecase.TriageUsecase
}

// NewTriageHandler creates a new triage handler
func NewTriageHandler(triageUC usecase.TriageUsecase) *TriageHandler {
	return &TriageHandler{triageUC: triageUC}
}

// Predict handles POST /predict
func (h *TriageHandler) Predict(c *gin.Context) {
	input, err := BindTicket(c)
	if err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.triageUC.Predict(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		HandleUsecaseError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, output)
}
