package pdf

import (
	"context"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// InvoiceDocument carries the already-formatted values rendered into the
// PDF. Layout is fixed; amounts arrive as two-decimal strings.
type InvoiceDocument struct {
	InvoiceNumber string
	IssueDate     string
	DueDate       string

	VendorName    string
	VendorAddress string
	VendorEmail   string

	BillToName    string
	BillToCompany string
	BillToAddress string
	BillToEmail   string

	ItemName     string
	Quantity     string
	QuantityUnit string
	UnitPrice    string
	ItemTotal    string

	Subtotal     string
	TaxAmount    string
	ShippingCost string
	TotalAmount  string

	PaymentTerms        string
	PaymentInstructions string
	Notes               string
}

// Renderer produces the invoice PDF bytes. Tests substitute a stub.
type Renderer interface {
	RenderInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

type marotoRenderer struct{}

func NewRenderer() Renderer {
	return &marotoRenderer{}
}

func (r *marotoRenderer) RenderInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, "INVOICE", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(18,
		col.New(6).Add(
			text.New("Invoice number: "+doc.InvoiceNumber, props.Text{Top: 0}),
			text.New("Date of issue: "+doc.IssueDate, props.Text{Top: 5}),
			text.New("Date due: "+doc.DueDate, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("Payment terms: "+doc.PaymentTerms, props.Text{Top: 0, Align: align.Right}),
		),
	)

	m.AddRow(36,
		col.New(6).Add(
			text.New(doc.VendorName, props.Text{Style: fontstyle.Bold}),
			text.New(doc.VendorAddress, props.Text{Top: 5}),
			text.New(doc.VendorEmail, props.Text{Top: 14}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(doc.BillToName, props.Text{Top: 5}),
			text.New(doc.BillToCompany, props.Text{Top: 10}),
			text.New(doc.BillToAddress, props.Text{Top: 15}),
			text.New(doc.BillToEmail, props.Text{Top: 24}),
		),
	)

	m.AddRow(8,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	m.AddRow(8,
		text.NewCol(6, doc.ItemName, props.Text{Size: 9}),
		text.NewCol(2, doc.Quantity+" "+doc.QuantityUnit, props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, doc.UnitPrice, props.Text{Size: 9, Align: align.Right}),
		text.NewCol(2, doc.ItemTotal, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	m.AddRow(24,
		col.New(7),
		col.New(5).Add(
			text.New("Subtotal: "+doc.Subtotal, props.Text{Size: 9, Align: align.Right}),
			text.New("Tax: "+doc.TaxAmount, props.Text{Size: 9, Top: 5, Align: align.Right}),
			text.New("Shipping: "+doc.ShippingCost, props.Text{Size: 9, Top: 10, Align: align.Right}),
			text.New("Total due: "+doc.TotalAmount, props.Text{Size: 11, Style: fontstyle.Bold, Top: 16, Align: align.Right}),
		),
	)

	if doc.PaymentInstructions != "" {
		m.AddRow(16,
			text.NewCol(12, "Payment instructions: "+doc.PaymentInstructions, props.Text{Size: 9}),
		)
	}
	if doc.Notes != "" {
		m.AddRow(12,
			text.NewCol(12, "Notes: "+doc.Notes, props.Text{Size: 9}),
		)
	}

	document, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return document.GetBytes(), nil
}
