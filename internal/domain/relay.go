package domain

// CompletionRequest is what gets sent to the completion provider
type CompletionRequest struct {
	Prompt     string
	SenderName string
}

// Audio is a synthesized voice reply
type Audio struct {
	Data      []byte
	FileName  string
	Title     string
	Performer string
	Caption   string
}

// Outcome describes how a single inbound message was handled
type Outcome string

const (
	OutcomeIgnored  Outcome = "ignored"
	OutcomeRejected Outcome = "rejected"
	OutcomeFlagged  Outcome = "flagged"
	OutcomeFailed   Outcome = "failed"
	OutcomeReplied  Outcome = "replied"
)
