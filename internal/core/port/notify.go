package port

import (
	"context"

	"github.com/MikeRez0/trucksy/internal/core/domain"
)

type Attachment struct {
	Filename string
	Data     []byte
}

type Mail struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

//go:generate mockgen -source=notify.go -destination=mock/notify.go -package=mock
type TextSender interface {
	SendText(ctx context.Context, phone string, text string) error
}

type Mailer interface {
	Send(ctx context.Context, mail *Mail) error
}

type InvoiceRenderer interface {
	RenderInvoice(invoice *domain.Invoice) ([]byte, error)
}
