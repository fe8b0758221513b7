// Package notify delivers customer and operator messages over email and
// SMS. The dispatcher degrades silently: channel failures are recorded in
// the result, never raised, so the order pipeline is never blocked on a
// notification.
package notify

import (
	"context"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/events"
)

type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

type EmailChannel interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type SMSChannel interface {
	Send(ctx context.Context, to, body string) error
}

// Result reports per-channel outcomes. Success means at least one attempted
// channel went through.
type Result struct {
	EmailSent bool     `json:"emailSent"`
	SMSSent   bool     `json:"smsSent"`
	Success   bool     `json:"success"`
	Errors    []string `json:"errors,omitempty"`
}

type Dispatcher struct {
	Email EmailChannel
	SMS   SMSChannel

	// SMSEnabled gates the SMS channel globally; off by default.
	SMSEnabled bool

	AdminEmail string
	AdminPhone string
	StoreName  string
}

// SendConfirmation mails the customer their order summary; email only when
// an address was given.
func (d *Dispatcher) SendConfirmation(ctx context.Context, p events.OrderPlacedPayload) Result {
	return d.deliver(ctx,
		confirmationEmail(d.StoreName, p),
		p.CustomerPhone, confirmationSMS(d.StoreName, p))
}

// SendAdminAlert notifies the operator about a new order, always via email.
func (d *Dispatcher) SendAdminAlert(ctx context.Context, p events.OrderPlacedPayload) Result {
	msg := adminAlertEmail(d.StoreName, p)
	msg.To = d.AdminEmail
	return d.deliver(ctx, msg, d.AdminPhone, adminAlertSMS(p))
}

func (d *Dispatcher) SendStatusUpdate(ctx context.Context, p events.StatusUpdatePayload) Result {
	return d.deliver(ctx,
		statusUpdateEmail(d.StoreName, p),
		p.CustomerPhone, statusUpdateSMS(d.StoreName, p))
}

// SendStockAlert is the operator-facing low/out-of-stock digest.
func (d *Dispatcher) SendStockAlert(ctx context.Context, p events.StockAlertPayload) Result {
	msg := stockAlertEmail(d.StoreName, p)
	msg.To = d.AdminEmail
	return d.deliver(ctx, msg, d.AdminPhone, stockAlertSMS(p))
}

func (d *Dispatcher) deliver(ctx context.Context, email EmailMessage, smsTo, smsBody string) Result {
	var res Result
	attempted := false

	if email.To != "" {
		attempted = true
		if err := d.Email.Send(ctx, email); err != nil {
			res.Errors = append(res.Errors, "email: "+err.Error())
		} else {
			res.EmailSent = true
		}
	}

	if d.SMSEnabled && smsTo != "" {
		attempted = true
		if err := d.SMS.Send(ctx, smsTo, smsBody); err != nil {
			res.Errors = append(res.Errors, "sms: "+err.Error())
		} else {
			res.SMSSent = true
		}
	}

	if !attempted {
		res.Errors = append(res.Errors, "no deliverable channel")
	}
	res.Success = res.EmailSent || res.SMSSent
	return res
}
