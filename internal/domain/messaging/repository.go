package messaging

import (
	"context"
	"time"
)

// Repository is the message ledger: an append-only log of every
// notification attempt. The only permitted mutation is Finalize, which
// flips a pending row to sent or failed exactly once.
type Repository interface {
	Append(ctx context.Context, m Message) error
	Finalize(ctx context.Context, id string, status Status, errText, providerRef string) error

	// HasSentToday reports whether a message of the given type was already
	// sent (status sent) for the cow on the calendar day of `day` (UTC).
	// The overdue sweep uses this for per-day idempotence.
	HasSentToday(ctx context.Context, farmID, cowID string, t MessageType, day time.Time) (bool, error)

	// HasSentSince reports whether a message of the given type was sent for
	// the cow at or after `since`. The advance calving reminders use this so
	// a milestone fires once per window, not once per day.
	HasSentSince(ctx context.Context, farmID, cowID string, t MessageType, since time.Time) (bool, error)

	ListByFarm(ctx context.Context, farmID string, limit int) ([]Message, error)
	ListByCow(ctx context.Context, farmID, cowID string, limit int) ([]Message, error)

	// ListFailedSince returns failed messages with SentAt >= cutoff, used by
	// the re-send sweep.
	ListFailedSince(ctx context.Context, cutoff time.Time, limit int) ([]Message, error)
	// HasResend reports whether a resend already exists for the message.
	HasResend(ctx context.Context, originalID string) (bool, error)
}

// ContactDirectory resolves the people attached to a farm. Implemented by
// the farms service; defined here so the dispatcher does not depend on the
// farms package.
type ContactDirectory interface {
	FarmContacts(ctx context.Context, farmID string) (FarmContacts, error)
}

// FarmContacts carries the resolved recipients of one farm. Empty phone
// means the role is not assigned.
type FarmContacts struct {
	FarmID    string
	OwnerName string

	FarmerPhone      string
	InseminatorName  string
	InseminatorPhone string
	DoctorName       string
	DoctorPhone      string
}

// PhoneFor returns the phone number for a role, empty when unassigned.
func (c FarmContacts) PhoneFor(role Role) string {
	switch role {
	case RoleFarmer:
		return c.FarmerPhone
	case RoleInseminator:
		return c.InseminatorPhone
	case RoleDoctor:
		return c.DoctorPhone
	default:
		return ""
	}
}
