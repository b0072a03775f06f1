package messaging

import "time"

// Intent is an unresolved instruction to notify a role about something.
// It is produced by the event processor, the overdue sweep and staff
// assignment changes, and consumed immediately by the dispatcher; it is
// never persisted.
type Intent struct {
	Type   MessageType
	Role   Role
	FarmID string
	CowID  string // empty for farm-level notices

	// Recipient, when set, skips the contact-directory lookup. Used for
	// notices to people no longer attached to the farm (unassigned staff).
	Recipient string

	Params map[string]string
}

// Message is the durable record of one notification attempt. Rows are
// append-only; the only in-place update is finalizing a pending row to
// sent or failed, exactly once.
type Message struct {
	ID     string
	FarmID string
	CowID  string

	Type      MessageType
	Role      Role
	Recipient string // normalized phone; empty when resolution failed
	Body      string

	Status      Status
	Error       string
	ProviderRef string

	// ResendOf references the failed message this one retries. A message
	// that is itself a resend is never retried again.
	ResendOf string

	SentAt time.Time
}
