package domain

import "time"

// MessageStatus enumerates moderation states for a single message.
// Approved, Rejected and Edited are terminal.
type MessageStatus string

const (
	MessagePendingApproval MessageStatus = "PENDING_APPROVAL"
	MessageApproved        MessageStatus = "APPROVED"
	MessageRejected        MessageStatus = "REJECTED"
	MessageEdited          MessageStatus = "EDITED"
)

// Resolved reports whether moderation has finished for the message.
func (s MessageStatus) Resolved() bool {
	return s != MessagePendingApproval
}

// Message is one entry in a ticket's thread. OriginalContent keeps the
// text as sent even after a mediator edit.
type Message struct {
	ID              string
	TicketID        string
	SenderID        string
	Content         string
	OriginalContent string
	Status          MessageStatus
	Timestamp       time.Time
}
