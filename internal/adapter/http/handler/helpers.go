package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/usecase"
)

// BindTicket decodes subject and body from a JSON, urlencoded or multipart
// request. Missing fields and an empty body decode to empty strings.
func BindTicket(c *gin.Context) (*usecase.PredictInput, error) {
	var input usecase.PredictInput

	if c.Request.Body == nil || c.Request.Body == http.NoBody || c.Request.ContentLength == 0 {
		return &input, bindQuery(c, &input)
	}

	b := binding.Default(c.Request.Method, c.ContentType())
	if err := c.ShouldBindWith(&input, b); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	return &input, nil
}

// bindQuery lets callers without a body pass fields as query parameters
func bindQuery(c *gin.Context, input *usecase.PredictInput) error {
	if len(c.Request.URL.RawQuery) == 0 {
		return nil
	}
	if err := c.ShouldBindQuery(input); err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}
	return nil
}
