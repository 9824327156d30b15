package pdf

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/Apurer/go-gin-storefront/internal/domains/invoices/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/invoices/ports"
)

const (
	fontFamily  = "Helvetica"
	titleSize   = 26
	lineSize    = 14
	totalSize   = 20
	lineSpacing = 1.25
	fullWidth   = 0
)

var _ ports.Renderer = (*Renderer)(nil)

// Renderer lays invoices out on A4 pages with fpdf.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render builds the whole document in memory. Dates are pinned to the
// invoice issue time so the same order always yields the same bytes.
func (r *Renderer) Render(inv *domain.Invoice) (ports.Document, error) {
	if inv == nil {
		return nil, fmt.Errorf("invoice is nil")
	}
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCatalogSort(true)
	doc.SetCreationDate(inv.IssuedAt)
	doc.SetModificationDate(inv.IssuedAt)
	doc.SetTitle(domain.Title+" "+inv.OrderID, true)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	text := func(size float64, s string) {
		doc.SetFont(fontFamily, "", size)
		_, height := doc.GetFontSize()
		doc.MultiCell(fullWidth, height*lineSpacing, tr(s), "", "L", false)
	}

	text(titleSize, domain.Title)
	text(titleSize, domain.Separator)
	for _, line := range inv.Lines {
		text(lineSize, line.Text())
	}
	text(lineSize, domain.Separator)
	text(totalSize, inv.TotalText())

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("lay out invoice %s: %w", inv.OrderID, err)
	}
	return doc, nil
}
