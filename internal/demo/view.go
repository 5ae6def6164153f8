package demo

import (
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/adapter/client"
)

// ViewState is what the page currently shows
type ViewState string

const (
	StateReady      ViewState = "ready"
	StateSubmitting ViewState = "submitting"
	StateResult     ViewState = "result"
	StateError      ViewState = "error"
)

// BlankTicketWarning is shown instead of calling the service when both
// fields are blank.
const BlankTicketWarning = "Please enter a subject or body."

// Page is the template data of the demo page
type Page struct {
	APIBase       string
	APIOK         bool
	HealthPayload string

	Examples []Example
	Selected int

	Subject string
	Body    string

	State     ViewState
	Warning   string
	Error     string
	ErrorBody string
	Result    *client.Result
}

// ShowLabel reports whether the result has a recognizable label
func (p *Page) ShowLabel() bool {
	return p.Result != nil && p.Result.Kind == client.ShapeKnown
}

// ShowScore reports whether the result has a confidence to display
func (p *Page) ShowScore() bool {
	return p.Result != nil && p.Result.Score != nil
}
