package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"go.uber.org/zap"
)

const dedupScopeNotifier = "notifier"

// Notifier turns committed domain events into WhatsApp messages and invoice e-mails.
// Delivery is best-effort: send failures are logged and never fail the event.
// Only an unreachable dedup store does, before anything is sent.
type Notifier struct {
	texts    port.TextSender
	mailer   port.Mailer
	invoices port.InvoiceRenderer
	dedup    port.Deduplicator
	metrics  port.Metrics
	logger   *zap.Logger
}

// NewNotifier builds a notifier. dedup may be nil when events are delivered at most once.
func NewNotifier(texts port.TextSender, mailer port.Mailer, invoices port.InvoiceRenderer,
	dedup port.Deduplicator, metrics port.Metrics, logger *zap.Logger) (*Notifier, error) {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Notifier{
		texts:    texts,
		mailer:   mailer,
		invoices: invoices,
		dedup:    dedup,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

func (n *Notifier) Handle(ctx context.Context, ev *domain.Event) error {
	if n.dedup != nil {
		claimed, err := n.dedup.Claim(ctx, dedupScopeNotifier, ev.ID)
		if err != nil {
			// nothing was sent yet, the consumer may redeliver
			return fmt.Errorf("dedup claim %s: %w", ev.ID, err)
		}
		if !claimed {
			n.logger.Debug("skip duplicate event", zap.String("event", ev.ID))
			return nil
		}
	}

	switch ev.Type {
	case domain.EventOrderPaid:
		var p domain.OrderPaidPayload
		if err := ev.Decode(&p); err != nil {
			n.logger.Error("bad event", zap.String("event", ev.ID), zap.Error(err))
			return nil
		}
		n.orderPaid(ctx, &p)
	case domain.EventOrderStatusChanged:
		var p domain.OrderStatusChangedPayload
		if err := ev.Decode(&p); err != nil {
			n.logger.Error("bad event", zap.String("event", ev.ID), zap.Error(err))
			return nil
		}
		n.orderStatusChanged(ctx, &p)
	case domain.EventSubscriptionActivated:
		var p domain.SubscriptionActivatedPayload
		if err := ev.Decode(&p); err != nil {
			n.logger.Error("bad event", zap.String("event", ev.ID), zap.Error(err))
			return nil
		}
		n.subscriptionActivated(ctx, &p)
	default:
		n.logger.Debug("ignore event", zap.String("type", string(ev.Type)))
	}
	return nil
}

func (n *Notifier) orderPaid(ctx context.Context, p *domain.OrderPaidPayload) {
	if p.OwnerPhone != "" {
		text := fmt.Sprintf("New Order Received! Order #%d from %s. Total: %.2f %s. Check your dashboard for details.",
			p.OrderID, p.TruckName, p.Total, p.Currency)
		n.sendText(ctx, p.OwnerPhone, text)
	}

	if p.ClientEmail == "" {
		return
	}
	inv := &domain.Invoice{
		Number:        "ORD-" + strconv.FormatUint(p.OrderID, 10),
		Title:         "Trucksy Order Invoice",
		IssuedAt:      p.PaidAt,
		CustomerName:  p.ClientName,
		CustomerEmail: p.ClientEmail,
		Seller:        p.TruckName,
		PaymentID:     p.PaymentID,
		Status:        string(domain.OrderStatusPaid),
		Lines:         p.Lines,
		Total:         p.Total,
		Currency:      p.Currency,
	}
	html := fmt.Sprintf(orderMailHTML, p.OrderID, p.Message, p.Total, p.Currency)
	n.sendInvoice(ctx, p.ClientEmail, fmt.Sprintf("Your Trucksy order invoice #%d", p.OrderID), html,
		fmt.Sprintf("Trucksy-Invoice-%d.pdf", p.OrderID), inv)
}

func (n *Notifier) orderStatusChanged(ctx context.Context, p *domain.OrderStatusChangedPayload) {
	if p.ClientPhone == "" {
		return
	}
	var text string
	switch p.Status {
	case domain.OrderStatusReady:
		text = fmt.Sprintf("Your order #%d from %s is READY for pickup.", p.OrderID, p.TruckName)
	case domain.OrderStatusCompleted:
		text = fmt.Sprintf("Your order #%d from %s is COMPLETED. Enjoy!", p.OrderID, p.TruckName)
	default:
		return
	}
	n.sendText(ctx, p.ClientPhone, text)
}

func (n *Notifier) subscriptionActivated(ctx context.Context, p *domain.SubscriptionActivatedPayload) {
	if p.OwnerEmail == "" {
		return
	}
	subID := fmt.Sprintf("SUB-%d-%d", p.OwnerID, p.StartDate.Year())
	nextBilling := p.EndDate.Format("2006-01-02")
	inv := &domain.Invoice{
		Number:        subID,
		Title:         "Trucksy Subscription Invoice",
		IssuedAt:      p.StartDate,
		CustomerName:  p.OwnerName,
		CustomerEmail: p.OwnerEmail,
		Seller:        "Trucksy",
		PaymentID:     p.PaymentID,
		Status:        string(domain.SubscriptionActive),
		Lines: []domain.InvoiceLine{{
			Description: "Monthly Premium",
			Quantity:    1,
			UnitPrice:   p.Fee,
			LineTotal:   p.Fee,
		}},
		Total:    p.Fee,
		Currency: p.Currency,
		Notes:    []string{"Next billing date: " + nextBilling},
	}
	html := fmt.Sprintf(subscriptionMailHTML, subID, p.Fee, p.Currency, nextBilling)
	n.sendInvoice(ctx, p.OwnerEmail, "Your Trucksy Subscription Invoice - Welcome to Premium!", html,
		fmt.Sprintf("Trucksy-Subscription-Invoice-%d.pdf", p.OwnerID), inv)
}

func (n *Notifier) sendText(ctx context.Context, phone string, text string) {
	if err := n.texts.SendText(ctx, phone, text); err != nil {
		n.logger.Error("whatsapp send failed", zap.Error(err))
		n.metrics.NotificationFailed(ctx, "whatsapp")
	}
}

func (n *Notifier) sendInvoice(ctx context.Context,
	to string, subject string, html string, filename string, inv *domain.Invoice) {
	mail := &port.Mail{To: to, Subject: subject, HTML: html}

	pdf, err := n.invoices.RenderInvoice(inv)
	if err != nil {
		n.logger.Error("invoice render failed", zap.String("invoice", inv.Number), zap.Error(err))
		n.metrics.NotificationFailed(ctx, "invoice")
	} else {
		mail.Attachments = []port.Attachment{{Filename: filename, Data: pdf}}
	}

	if err := n.mailer.Send(ctx, mail); err != nil {
		n.logger.Error("invoice mail failed", zap.String("invoice", inv.Number), zap.Error(err))
		n.metrics.NotificationFailed(ctx, "mail")
	}
}

const orderMailHTML = `<div style="font-family:Arial,Helvetica,sans-serif">
  <h2 style="margin:0 0 8px 0;color:#ff6b35">Thanks for your order!</h2>
  <p style="margin:0 0 12px 0">Your Trucksy order <b>#%d</b> has been paid successfully.</p>
  <p style="margin:0 0 12px 0">Order status: <b>%s</b></p>
  <p style="margin:0 0 12px 0">Total amount: <b>%.2f %s</b></p>
  <p style="margin:0 0 12px 0">We've attached your invoice as a PDF.</p>
</div>`

const subscriptionMailHTML = `<div style="font-family:Arial,Helvetica,sans-serif">
  <h2 style="margin:0 0 8px 0;color:#ff6b35">Welcome to Trucksy Premium!</h2>
  <p style="margin:0 0 12px 0">Your subscription payment has been processed successfully.</p>
  <p style="margin:0 0 12px 0">Subscription ID: <b>%s</b></p>
  <p style="margin:0 0 12px 0">Amount paid: <b>%.2f %s</b></p>
  <p style="margin:0 0 12px 0">Next billing date: <b>%s</b></p>
  <p style="margin:0 0 12px 0">We've attached your subscription invoice as a PDF.</p>
</div>`
