package notify

import (
	"fmt"
	"strings"

	"github.com/ahmedharati210-cyber/life-accessories-backend/internal/events"
)

func confirmationEmail(store string, p events.OrderPlacedPayload) EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "مرحباً %s،\n\n", p.CustomerName)
	fmt.Fprintf(&b, "تم استلام طلبك %s بنجاح وسنتواصل معك لتأكيده.\n\n", p.OrderNumber)
	b.WriteString("تفاصيل الطلب:\n")
	for _, it := range p.Items {
		fmt.Fprintf(&b, "- %s × %d = %.2f د.ل\n", it.Name, it.Quantity, it.LineTotal)
	}
	fmt.Fprintf(&b, "\nالمجموع: %.2f د.ل\n", p.Subtotal)
	fmt.Fprintf(&b, "رسوم التوصيل (%s): %.2f د.ل\n", p.AreaName, p.DeliveryFee)
	fmt.Fprintf(&b, "الإجمالي: %.2f د.ل\n\n", p.Total)
	fmt.Fprintf(&b, "شكراً لتسوقك من %s", store)

	return EmailMessage{
		To:      p.CustomerEmail,
		Subject: fmt.Sprintf("تأكيد استلام الطلب %s - %s", p.OrderNumber, store),
		Body:    b.String(),
	}
}

func confirmationSMS(store string, p events.OrderPlacedPayload) string {
	return fmt.Sprintf("%s: تم استلام طلبك %s بقيمة %.2f د.ل، سنتواصل معك قريباً.",
		store, p.OrderNumber, p.Total)
}

func adminAlertEmail(store string, p events.OrderPlacedPayload) EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "طلب جديد %s\n\n", p.OrderNumber)
	fmt.Fprintf(&b, "العميل: %s\nالهاتف: %s\nالمنطقة: %s\n", p.CustomerName, p.CustomerPhone, p.AreaName)
	fmt.Fprintf(&b, "الإجمالي: %.2f د.ل\n\n", p.Total)
	fmt.Fprintf(&b, "IP: %s\nRisk score: %d\n", p.IPAddress, p.RiskScore)

	return EmailMessage{
		Subject: fmt.Sprintf("[%s] طلب جديد %s", store, p.OrderNumber),
		Body:    b.String(),
	}
}

func adminAlertSMS(p events.OrderPlacedPayload) string {
	return fmt.Sprintf("طلب جديد %s من %s بقيمة %.2f د.ل (risk %d)",
		p.OrderNumber, p.CustomerName, p.Total, p.RiskScore)
}

func statusUpdateEmail(store string, p events.StatusUpdatePayload) EmailMessage {
	var b strings.Builder
	fmt.Fprintf(&b, "مرحباً %s،\n\n", p.CustomerName)
	fmt.Fprintf(&b, "تحديث حالة طلبك %s: %s\n", p.OrderNumber, p.StatusText)
	if p.TrackingInfo != "" {
		fmt.Fprintf(&b, "رقم التتبع: %s\n", p.TrackingInfo)
	}
	if p.EstimatedDelivery != "" {
		fmt.Fprintf(&b, "موعد التوصيل المتوقع: %s\n", p.EstimatedDelivery)
	}
	if p.Notes != "" {
		fmt.Fprintf(&b, "ملاحظات: %s\n", p.Notes)
	}
	fmt.Fprintf(&b, "\nشكراً لتسوقك من %s", store)

	return EmailMessage{
		To:      p.CustomerEmail,
		Subject: fmt.Sprintf("تحديث الطلب %s - %s", p.OrderNumber, p.StatusText),
		Body:    b.String(),
	}
}

func statusUpdateSMS(store string, p events.StatusUpdatePayload) string {
	return fmt.Sprintf("%s: طلبك %s - %s", store, p.OrderNumber, p.StatusText)
}

func stockAlertEmail(store string, p events.StockAlertPayload) EmailMessage {
	var b strings.Builder
	b.WriteString("المنتجات التالية وصلت حد التنبيه:\n\n")
	for _, pr := range p.Products {
		if pr.Stock == 0 {
			fmt.Fprintf(&b, "- %s: نفد المخزون\n", pr.Name)
		} else {
			fmt.Fprintf(&b, "- %s: متبقي %d\n", pr.Name, pr.Stock)
		}
	}
	return EmailMessage{
		Subject: fmt.Sprintf("[%s] تنبيه مخزون منخفض", store),
		Body:    b.String(),
	}
}

func stockAlertSMS(p events.StockAlertPayload) string {
	return fmt.Sprintf("تنبيه مخزون: %d منتجات عند أو تحت حد التنبيه", len(p.Products))
}
