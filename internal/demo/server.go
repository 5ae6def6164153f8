package demo

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/adapter/client"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/adapter/http/middleware"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/domain/entity"
)

//go:embed templates/*.html
var templateFS embed.FS

// Form actions posted by the page
const (
	ActionPredict      = "predict"
	ActionLoadExample  = "load_example"
	ActionLoadSelected = "load_selected"
)

// TriageAPI is the part of the triage service the demo talks to
type TriageAPI interface {
	Health(ctx context.Context) (*client.HealthReport, error)
	Predict(ctx context.Context, subject, body string) (*client.PredictResponse, error)
	BaseURL() string
}

// Server renders the demo page
type Server struct {
	api    TriageAPI
	logger *zap.Logger
	engine *gin.Engine
}

type submitForm struct {
	Action  string `form:"action"`
	Subject string `form:"subject"`
	Body    string `form:"body"`
	Example int    `form:"example"`
}

// NewServer creates the demo web server
func NewServer(api TriageAPI, logger *zap.Logger) *Server {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(logger))
	engine.Use(middleware.Recovery(logger))

	engine.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	s := &Server{
		api:    api,
		logger: logger,
		engine: engine,
	}
	s.routes()

	return s
}

// Handler returns the HTTP handler of the demo
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/", s.index)
	s.engine.POST("/", s.submit)
}

// index handles GET /. ?example=N pre-fills the form with a preset.
func (s *Server) index(c *gin.Context) {
	page := s.newPage(c.Request.Context())

	if raw, ok := c.GetQuery("example"); ok {
		i, _ := strconv.Atoi(raw)
		s.loadExample(page, i)
	}

	s.render(c, page)
}

// submit handles POST /
func (s *Server) submit(c *gin.Context) {
	var form submitForm
	if err := c.ShouldBind(&form); err != nil {
		page := s.newPage(c.Request.Context())
		page.State = StateError
		page.Error = "Invalid form: " + err.Error()
		c.Status(http.StatusBadRequest)
		s.render(c, page)
		return
	}

	page := s.newPage(c.Request.Context())
	page.Subject = form.Subject
	page.Body = form.Body
	_, page.Selected = exampleAt(form.Example)

	switch form.Action {
	case ActionLoadExample:
		s.loadExample(page, 0)
	case ActionLoadSelected:
		s.loadExample(page, form.Example)
	default:
		s.predict(c.Request.Context(), page)
	}

	s.render(c, page)
}

func (s *Server) predict(ctx context.Context, page *Page) {
	ticket := entity.NewTicket(strings.TrimSpace(page.Subject), strings.TrimSpace(page.Body))
	if ticket.IsBlank() {
		page.Warning = BlankTicketWarning
		return
	}
	if !page.APIOK {
		page.State = StateError
		page.Error = client.ErrServiceUnreachable.Error()
		return
	}

	resp, err := s.api.Predict(ctx, ticket.Subject, ticket.Body)
	if err != nil {
		page.State = StateError

		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			page.Error = apiErr.Error()
			page.ErrorBody = apiErr.Body
		} else {
			page.Error = "Request failed: " + err.Error()
		}
		s.logger.Warn("Prediction request failed", zap.Error(err))
		return
	}

	page.State = StateResult
	page.Result = resp.Result
}

func (s *Server) newPage(ctx context.Context) *Page {
	page := &Page{
		APIBase:  s.api.BaseURL(),
		Examples: Examples,
		State:    StateReady,
	}

	report, err := s.api.Health(ctx)
	switch {
	case err == nil:
		page.APIOK = true
		page.HealthPayload = report.Payload
	case report != nil:
		page.HealthPayload = report.Payload
	default:
		page.HealthPayload = err.Error()
	}

	return page
}

func (s *Server) loadExample(page *Page, i int) {
	ex, i := exampleAt(i)
	page.Subject = ex.Subject
	page.Body = ex.Body
	page.Selected = i
}

// render keeps any status set earlier in the handler
func (s *Server) render(c *gin.Context, page *Page) {
	c.HTML(c.Writer.Status(), "index.html", page)
}
