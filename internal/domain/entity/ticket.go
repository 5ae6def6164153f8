package entity

// Ticket represents a support ticket submitted for triage
type Ticket struct {
	Subject string
	Body    string
}

// NewTicket creates a new Ticket
func NewTicket(subject, body string) *Ticket {
	return &Ticket{
		Subject: subject,
		Body:    body,
	}
}

// Text returns the model input: subject, a single newline, then body
func (t *Ticket) Text() string {
	return t.Subject + "\n" + t.Body
}

// IsBlank returns true if both subject and body are empty
func (t *Ticket) IsBlank() bool {
	return t.Subject == "" && t.Body == ""
}
