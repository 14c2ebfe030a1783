// Package report renders the deposit/offerings report for one collection:
// a PDF artifact for download or attachment, and an HTML summary used as an
// email body.
package report

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/jung-kurt/gofpdf"

	"github.com/tithr-app/tithr_backend/internal/apperrors"
	"github.com/tithr-app/tithr_backend/internal/core/domain"
	"github.com/tithr-app/tithr_backend/internal/core/ports"
)

// Renderer produces report documents. Rendering is deterministic: identical
// inputs yield byte-identical output (the PDF creation and modification dates
// are pinned to the epoch so the data's own date field is the only meaningful
// timestamp in the document).
type Renderer struct{}

// NewRenderer returns the report renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

var _ ports.ReportRenderer = (*Renderer)(nil)

// Table column widths in mm; A4 portrait with default 10mm margins leaves 190.
var colWidths = [4]float64{60, 35, 40, 55}

// RenderPDF produces the binary collection report: header block, donation
// table in input order, recomputed total row, then the deposit slip image when
// its bytes were resolvable. A slip reference whose bytes are missing or
// undecodable degrades to printing the resolved URL; the report itself still
// renders.
func (r *Renderer) RenderPDF(input domain.ReportInput) ([]byte, error) {
	c := input.Collection
	if c.Date.IsZero() {
		return nil, apperrors.NewStepError(apperrors.StepRender,
			fmt.Errorf("%w: collection date is required", apperrors.ErrValidation))
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// gofpdf stamps time.Now() when the dates are zero, and emits catalog
	// maps in iteration order unless told to sort; pin all three so identical
	// inputs produce byte-identical output.
	epoch := time.Unix(0, 0).UTC()
	pdf.SetCreationDate(epoch)
	pdf.SetModificationDate(epoch)
	pdf.SetCatalogSort(true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 18)
	pdf.CellFormat(0, 10, "Weekly Collection Summary", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, "Date: "+c.Date.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Service Type: "+string(c.ServiceType), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Recorded By: "+c.RecordedBy, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Counted By: "+c.CountedBy, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.CellFormat(0, 7, "Donations:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	tableRow(pdf, "Donor Name", "Check #", "Amount", "Type")
	pdf.SetFont("Helvetica", "", 11)
	for _, d := range input.Donations {
		tableRow(pdf, d.DonorName, d.CheckNumber, "$"+d.Amount.StringFixed(2), string(d.DonationType))
	}

	total := domain.ComputeTotal(input.Donations)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Total: $"+total.StringFixed(2), "", 1, "L", false, 0, "")

	r.slipBlock(pdf, input)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.NewStepError(apperrors.StepRender, fmt.Errorf("write pdf: %w", err))
	}
	return buf.Bytes(), nil
}

func tableRow(pdf *gofpdf.Fpdf, donor, check, amount, kind string) {
	pdf.CellFormat(colWidths[0], 8, donor, "B", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[1], 8, check, "B", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[2], 8, amount, "B", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], 8, kind, "B", 1, "L", false, 0, "")
}

// slipBlock appends the optional deposit slip section.
func (r *Renderer) slipBlock(pdf *gofpdf.Fpdf, input domain.ReportInput) {
	if input.DepositSlipURL == "" && len(input.DepositSlipImage) == 0 {
		return
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, "Deposit Slip:", "", 1, "L", false, 0, "")

	if imgType, ok := sniffImageType(input.DepositSlipImage); ok {
		opts := gofpdf.ImageOptions{ImageType: imgType}
		pdf.RegisterImageOptionsReader("deposit-slip", opts, bytes.NewReader(input.DepositSlipImage))
		pdf.ImageOptions("deposit-slip", pdf.GetX(), pdf.GetY(), 110, 0, true, opts, 0, "")
		return
	}
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, input.DepositSlipURL, "", 1, "L", false, 0, "")
}

// sniffImageType reports the gofpdf image type of the bytes, when they decode
// to a format the PDF can embed.
func sniffImageType(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	switch format {
	case "jpeg":
		return "JPG", true
	case "png":
		return "PNG", true
	case "gif":
		return "GIF", true
	}
	return "", false
}

// ResolveSlipURL turns a stored deposit slip reference into a fetchable URL.
// Absolute references pass through unchanged; relative storage paths are
// prefixed with the storage service's base address.
func ResolveSlipURL(ref, baseURL string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(ref, "/")
}
