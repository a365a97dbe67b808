// Package render draws invoices and returns as PDF documents.
package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const (
	pageWidth  = 190.0 // A4 minus margins, mm
	lineHeight = 7.0
)

// tableColumn is one column of the item table.
type tableColumn struct {
	title string
	width float64
	align string
}

var itemColumns = []tableColumn{
	{"#", 10, "C"},
	{"Item", 80, "L"},
	{"Qty", 25, "R"},
	{"Rate", 35, "R"},
	{"Amount", 40, "R"},
}

var returnColumns = []tableColumn{
	{"#", 10, "C"},
	{"Item", 65, "L"},
	{"Cond.", 20, "C"},
	{"Qty", 25, "R"},
	{"Rate", 30, "R"},
	{"Amount", 40, "R"},
}

// document wraps fpdf with the layout shared by every Billistry document.
type document struct {
	pdf      *fpdf.Fpdf
	tr       func(string) string
	currency string
}

func newDocument(title string, business domain.Business) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAuthor(business.Name, true)
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	return &document{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		currency: business.Currency,
	}
}

func (d *document) money(v decimal.Decimal) string {
	return d.currency + " " + v.StringFixed(domain.MoneyPlaces)
}

func (d *document) header(business domain.Business, heading, number string, date string) {
	p := d.pdf
	p.AddPage()
	p.SetFont("Helvetica", "B", 16)
	p.CellFormat(pageWidth/2, 9, d.tr(business.Name), "", 0, "L", false, 0, "")
	p.CellFormat(pageWidth/2, 9, d.tr(heading), "", 1, "R", false, 0, "")

	p.SetFont("Helvetica", "", 9)
	for _, line := range []string{business.Address, business.Phone, business.Email} {
		if line != "" {
			p.CellFormat(pageWidth, 5, d.tr(line), "", 1, "L", false, 0, "")
		}
	}
	if business.GSTIN != "" {
		p.CellFormat(pageWidth, 5, d.tr("GSTIN: "+business.GSTIN), "", 1, "L", false, 0, "")
	}
	p.Ln(3)

	p.SetFont("Helvetica", "B", 10)
	p.CellFormat(pageWidth/2, 6, d.tr("No: "+number), "", 0, "L", false, 0, "")
	p.CellFormat(pageWidth/2, 6, d.tr("Date: "+date), "", 1, "R", false, 0, "")
}

func (d *document) partyLine(label, name string) {
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.CellFormat(pageWidth, 6, d.tr(label+": "+name), "", 1, "L", false, 0, "")
	d.pdf.Ln(2)
}

func (d *document) tableHeader(cols []tableColumn) {
	p := d.pdf
	p.SetFont("Helvetica", "B", 10)
	p.SetFillColor(235, 235, 235)
	for _, col := range cols {
		p.CellFormat(col.width, lineHeight, col.title, "1", 0, col.align, true, 0, "")
	}
	p.Ln(-1)
	p.SetFont("Helvetica", "", 10)
}

func (d *document) tableRow(cols []tableColumn, values []string) {
	for i, col := range cols {
		d.pdf.CellFormat(col.width, lineHeight, d.tr(values[i]), "1", 0, col.align, false, 0, "")
	}
	d.pdf.Ln(-1)
}

func (d *document) totalLine(label string, v decimal.Decimal, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	d.pdf.SetFont("Helvetica", style, 10)
	d.pdf.CellFormat(pageWidth-50, lineHeight, d.tr(label), "", 0, "R", false, 0, "")
	d.pdf.CellFormat(50, lineHeight, d.tr(d.money(v)), "", 1, "R", false, 0, "")
}

func (d *document) note(label, text string) {
	if text == "" {
		return
	}
	d.pdf.Ln(3)
	d.pdf.SetFont("Helvetica", "I", 9)
	d.pdf.MultiCell(pageWidth, 5, d.tr(label+": "+text), "", "L", false)
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func invoiceHeading(kind domain.DocumentKind) string {
	if kind == domain.KindPurchase {
		return "PURCHASE BILL"
	}
	return "TAX INVOICE"
}

func clampCopies(copies int) int {
	if copies < 1 {
		return 1
	}
	return copies
}

// Invoice renders a sale or purchase. Each copy is a separate page set.
func Invoice(business domain.Business, inv domain.Invoice, copies int) ([]byte, error) {
	doc := newDocument(invoiceHeading(inv.Kind)+" "+inv.InvoiceNumber, business)
	partyLabel := "Bill to"
	if inv.Kind == domain.KindPurchase {
		partyLabel = "Supplier"
	}
	for c := 0; c < clampCopies(copies); c++ {
		doc.header(business, invoiceHeading(inv.Kind), inv.InvoiceNumber, inv.InvoiceDate.Format("02 Jan 2006"))
		doc.partyLine(partyLabel, inv.PartyName)
		doc.tableHeader(itemColumns)
		for i, item := range inv.Items {
			doc.tableRow(itemColumns, []string{
				strconv.Itoa(i + 1),
				item.ProductName,
				item.Quantity.String(),
				item.Rate.StringFixed(domain.MoneyPlaces),
				item.Total.StringFixed(domain.MoneyPlaces),
			})
		}
		doc.pdf.Ln(2)
		doc.totalLine("Subtotal", inv.Subtotal, false)
		if !inv.DiscountAmount.IsZero() {
			doc.totalLine("Discount", inv.DiscountAmount.Neg(), false)
		}
		doc.totalLine("Tax ("+inv.TaxRate.String()+"%)", inv.TaxAmount, false)
		doc.totalLine("Total", inv.InvoiceAmount, true)
		doc.note("Notes", inv.Notes)
	}
	return doc.bytes()
}

// Return renders a sale or purchase return.
func Return(business domain.Business, ret domain.Return, copies int) ([]byte, error) {
	heading := "SALE RETURN"
	if ret.Kind == domain.KindPurchaseReturn {
		heading = "PURCHASE RETURN"
	}
	doc := newDocument(heading+" "+ret.ReturnNumber, business)
	for c := 0; c < clampCopies(copies); c++ {
		doc.header(business, heading, ret.ReturnNumber, ret.ReturnDate.Format("02 Jan 2006"))
		doc.partyLine("Party", ret.PartyName)
		doc.partyLine("Against", ret.OriginalInvoiceNumber)
		doc.tableHeader(returnColumns)
		for i, item := range ret.Items {
			doc.tableRow(returnColumns, []string{
				strconv.Itoa(i + 1),
				item.ProductName,
				string(item.Condition),
				item.Quantity.String(),
				item.Rate.StringFixed(domain.MoneyPlaces),
				item.Total.StringFixed(domain.MoneyPlaces),
			})
		}
		doc.pdf.Ln(2)
		doc.totalLine("Subtotal", ret.Subtotal, false)
		doc.totalLine("Refund (good items)", ret.RefundAmount, false)
		doc.totalLine("Tax ("+ret.TaxRate.String()+"%)", ret.TaxAmount, false)
		doc.totalLine("Grand total", ret.GrandTotal, true)
		doc.note("Reason", ret.Reason)
	}
	return doc.bytes()
}
