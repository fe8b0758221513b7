package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/events"
)

type fakeEmail struct {
	sent []EmailMessage
	err  error
}

func (f *fakeEmail) Send(_ context.Context, msg EmailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeSMS struct {
	sent []string
	err  error
}

func (f *fakeSMS) Send(_ context.Context, to, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func newDispatcher(smsEnabled bool) (*Dispatcher, *fakeEmail, *fakeSMS) {
	email := &fakeEmail{}
	sms := &fakeSMS{}
	return &Dispatcher{
		Email:      email,
		SMS:        sms,
		SMSEnabled: smsEnabled,
		AdminEmail: "admin@life-accessories.ly",
		AdminPhone: "0919999999",
		StoreName:  "Life Accessories",
	}, email, sms
}

func placedPayload() events.OrderPlacedPayload {
	return events.OrderPlacedPayload{
		OrderID:       "ord-1",
		OrderNumber:   "#4217",
		CustomerName:  "أحمد علي",
		CustomerPhone: "0911234567",
		CustomerEmail: "ahmed@example.com",
		AreaName:      "طرابلس المركز",
		Items: []events.ItemSnapshot{
			{ProductID: "p1", Name: "سلسلة ذهبية", Quantity: 2, UnitPrice: 50, LineTotal: 100},
		},
		Subtotal:    100,
		DeliveryFee: 10,
		Total:       110,
		IPAddress:   "41.252.10.10",
		RiskScore:   15,
	}
}

func TestConfirmationEmailOnly(t *testing.T) {
	d, email, sms := newDispatcher(false)

	res := d.SendConfirmation(context.Background(), placedPayload())
	assert.True(t, res.Success)
	assert.True(t, res.EmailSent)
	assert.False(t, res.SMSSent, "SMS is feature-flagged off by default")
	assert.Empty(t, res.Errors)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "ahmed@example.com", email.sent[0].To)
	assert.Contains(t, email.sent[0].Subject, "#4217")
	assert.Contains(t, email.sent[0].Body, "سلسلة ذهبية")
	assert.Empty(t, sms.sent)
}

func TestConfirmationWithoutEmailAddress(t *testing.T) {
	d, email, _ := newDispatcher(false)

	p := placedPayload()
	p.CustomerEmail = ""

	res := d.SendConfirmation(context.Background(), p)
	assert.False(t, res.Success)
	assert.Contains(t, res.Errors, "no deliverable channel")
	assert.Empty(t, email.sent)
}

func TestSMSGateOpensChannel(t *testing.T) {
	d, _, sms := newDispatcher(true)

	p := placedPayload()
	p.CustomerEmail = ""

	res := d.SendConfirmation(context.Background(), p)
	assert.True(t, res.Success)
	assert.True(t, res.SMSSent)
	assert.Equal(t, []string{"0911234567"}, sms.sent)
}

func TestAnyChannelSuccessIsSuccess(t *testing.T) {
	d, email, _ := newDispatcher(true)
	email.err = errors.New("mailer 500")

	res := d.SendConfirmation(context.Background(), placedPayload())
	assert.True(t, res.Success, "SMS went through, so the dispatch succeeded")
	assert.False(t, res.EmailSent)
	assert.True(t, res.SMSSent)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "email:")
}

func TestAllChannelsFailing(t *testing.T) {
	d, email, sms := newDispatcher(true)
	email.err = errors.New("mailer 500")
	sms.err = errors.New("gateway timeout")

	res := d.SendConfirmation(context.Background(), placedPayload())
	assert.False(t, res.Success)
	assert.Len(t, res.Errors, 2)
}

func TestAdminAlertGoesToOperator(t *testing.T) {
	d, email, _ := newDispatcher(false)

	res := d.SendAdminAlert(context.Background(), placedPayload())
	assert.True(t, res.Success)
	require.Len(t, email.sent, 1)
	assert.Equal(t, "admin@life-accessories.ly", email.sent[0].To)
	assert.Contains(t, email.sent[0].Body, "41.252.10.10")
	assert.Contains(t, email.sent[0].Body, "Risk score: 15")
}

func TestStatusUpdateUsesLocalizedText(t *testing.T) {
	d, email, _ := newDispatcher(false)

	res := d.SendStatusUpdate(context.Background(), events.StatusUpdatePayload{
		OrderID:       "ord-1",
		OrderNumber:   "#4217",
		CustomerName:  "أحمد علي",
		CustomerEmail: "ahmed@example.com",
		Status:        "shipped",
		StatusText:    "تم شحن الطلب",
		TrackingInfo:  "TRK-99",
	})
	assert.True(t, res.Success)
	require.Len(t, email.sent, 1)
	assert.Contains(t, email.sent[0].Subject, "تم شحن الطلب")
	assert.Contains(t, email.sent[0].Body, "TRK-99")
}

func TestStockAlertListsProducts(t *testing.T) {
	d, email, _ := newDispatcher(false)

	res := d.SendStockAlert(context.Background(), events.StockAlertPayload{
		Products: []events.LowStockProduct{
			{ProductID: "p1", Name: "سلسلة ذهبية", Stock: 2},
			{ProductID: "p2", Name: "خاتم فضة", Stock: 0},
		},
	})
	assert.True(t, res.Success)
	require.Len(t, email.sent, 1)
	assert.Contains(t, email.sent[0].Body, "متبقي 2")
	assert.Contains(t, email.sent[0].Body, "نفد المخزون")
}
