// Package sms defines the outbound SMS gateway contract consumed by the
// notification dispatcher.
package sms

import "context"

type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// Result is the outcome of one send attempt. When Status is failed, Err
// carries the provider's error text; when sent, ProviderRef may carry the
// provider message reference.
type Result struct {
	Status      Status
	ProviderRef string
	Err         string
}

// Gateway sends one text message. Implementations must bound the call with
// the context deadline; a timeout is reported as a failed Result, the error
// return is reserved for programming mistakes (nil client, bad config).
type Gateway interface {
	Send(ctx context.Context, to, text string) (Result, error)
}
