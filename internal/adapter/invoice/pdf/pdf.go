// Package pdf renders invoices as single page A4 documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 15.0
	rowHeight  = 8.0
)

var columns = []struct {
	title string
	width float64
	align string
}{
	{"Item", 90, "L"},
	{"Qty", 20, "C"},
	{"Unit price", 35, "R"},
	{"Total", 35, "R"},
}

type Renderer struct{}

var _ port.InvoiceRenderer = Renderer{}

func NewRenderer() Renderer {
	return Renderer{}
}

func (Renderer) RenderInvoice(inv *domain.Invoice) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle(inv.Title, true)
	pdf.SetCreator("Trucksy", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(inv.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	meta := [][2]string{
		{"Invoice", inv.Number},
		{"Date", inv.IssuedAt.Format("2006-01-02 15:04")},
		{"Billed to", inv.CustomerName},
		{"E-mail", inv.CustomerEmail},
		{"Seller", inv.Seller},
		{"Payment", inv.PaymentID},
		{"Status", inv.Status},
	}
	for _, kv := range meta {
		if kv[1] == "" {
			continue
		}
		pdf.CellFormat(35, 6, tr(kv[0]+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(kv[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(238, 238, 238)
	for _, c := range columns {
		pdf.CellFormat(c.width, rowHeight, c.title, "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, l := range inv.Lines {
		cells := []string{
			tr(l.Description),
			fmt.Sprintf("%d", l.Quantity),
			fmt.Sprintf("%.2f", l.UnitPrice),
			fmt.Sprintf("%.2f", l.LineTotal),
		}
		for i, c := range columns {
			pdf.CellFormat(c.width, rowHeight, cells[i], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 11)
	labelWidth := columns[0].width + columns[1].width + columns[2].width
	pdf.CellFormat(labelWidth, rowHeight, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(columns[3].width, rowHeight, fmt.Sprintf("%.2f %s", inv.Total, inv.Currency),
		"1", 1, "R", false, 0, "")

	if len(inv.Notes) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 9)
		for _, n := range inv.Notes {
			pdf.MultiCell(0, 5, tr(n), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.Number, err)
	}
	return buf.Bytes(), nil
}
