package demo

// Example is a ready-made ticket the form can be filled with
type Example struct {
	Subject string
	Body    string
}

// Examples are offered by "Load example" (first entry) and "Load selected"
var Examples = []Example{
	{
		Subject: "Double charge on my credit card",
		Body:    "I see two transactions for the same order. Please help me resolve this.",
	},
	{
		Subject: "Can’t reset my password",
		Body:    "The password reset link says it expired. I tried multiple times but I still can’t log in.",
	},
	{
		Subject: "Return request for an order",
		Body:    "I want to return my item. What’s the process and how long does it take for a refund?",
	},
	{
		Subject: "Service outage?",
		Body:    "Our dashboard is down and we’re getting 500 errors. Is there an outage right now?",
	},
}

// exampleAt returns the preset at i, falling back to the first one
func exampleAt(i int) (Example, int) {
	if i < 0 || i >= len(Examples) {
		i = 0
	}
	return Examples[i], i
}
