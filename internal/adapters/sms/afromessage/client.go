// Package afromessage implements the SMS gateway against the AfroMessage
// send API (https://api.afromessage.com/api/send).
package afromessage

import (
	"context"
	"net/url"
	"strings"
	"time"

	"dairy-herd-manager/internal/platform/httpclient"
	"dairy-herd-manager/internal/platform/logger"
	"dairy-herd-manager/internal/ports/sms"
)

const DefaultBaseURL = "https://api.afromessage.com/api/send"

type Options struct {
	BaseURL string // defaults to DefaultBaseURL
	Token   string // empty => dev mode: log instead of sending
	Sender  string // sender id / short code
	Timeout time.Duration
}

type Client struct {
	http    *httpclient.Client
	baseURL string
	token   string
	sender  string
	log     logger.Logger
}

func New(opts Options, log logger.Logger) *Client {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		http:    httpclient.New(opts.Timeout),
		baseURL: base,
		token:   strings.TrimSpace(opts.Token),
		sender:  strings.TrimSpace(opts.Sender),
		log:     log,
	}
}

// apiResponse is the AfroMessage envelope. Acknowledge is "success" or "error".
type apiResponse struct {
	Acknowledge string `json:"acknowledge"`
	Response    struct {
		MessageID string `json:"message_id"`
		Message   string `json:"message"`
	} `json:"response"`
}

func (c *Client) Send(ctx context.Context, to, text string) (sms.Result, error) {
	// Dev mode: no token configured, log the message and report success so
	// the rest of the pipeline behaves as in production.
	if c.token == "" {
		c.log.Info("dev mode: sms not sent", logger.Fields{"to": to, "text": text})
		return sms.Result{Status: sms.StatusSent, ProviderRef: "dev"}, nil
	}

	params := url.Values{}
	params.Set("sender", c.sender)
	params.Set("to", to)
	params.Set("message", text)

	headers := map[string]string{"Authorization": "Bearer " + c.token}

	var out apiResponse
	err := c.http.GetJSON(ctx, c.baseURL, params, headers, &out)
	if err != nil {
		return sms.Result{Status: sms.StatusFailed, Err: err.Error()}, nil
	}

	if out.Acknowledge != "success" {
		msg := out.Response.Message
		if msg == "" {
			msg = "provider rejected message"
		}
		return sms.Result{Status: sms.StatusFailed, Err: msg}, nil
	}

	return sms.Result{Status: sms.StatusSent, ProviderRef: out.Response.MessageID}, nil
}
