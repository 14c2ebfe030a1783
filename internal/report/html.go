package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/tithr-app/tithr_backend/internal/apperrors"
	"github.com/tithr-app/tithr_backend/internal/core/domain"
)

// summaryTmpl is the email body: same header, listing and total as the PDF,
// no embedded image. The slip travels as an attachment, so the body only says
// the full report is attached.
var summaryTmpl = template.Must(template.New("summary").Parse(`<div style="font-family: Arial, sans-serif; color: #111; line-height: 1.5; max-width: 600px; margin: auto;">
  <h2 style="color: #2563eb;">Weekly Offerings Report</h2>
  <p><strong>Date:</strong> {{.Date}}</p>
  <p><strong>Service:</strong> {{.ServiceType}}</p>
  <p><strong>Recorded By:</strong> {{.RecordedBy}}</p>
  <p><strong>Counted By:</strong> {{.CountedBy}}</p>

  <h3 style="margin-top: 1rem;">Donations Summary</h3>
  <ul>
{{- range .Donations}}
    <li>{{.DonorName}} | {{.CheckNumber}} | ${{.Amount}} | {{.DonationType}}</li>
{{- end}}
  </ul>
  <p style="font-weight: bold; margin-top: 0.5rem;">TOTAL: ${{.Total}}</p>
  <p style="margin-top: 1rem;">The full collection report PDF is attached.</p>
</div>
`))

type summaryRow struct {
	DonorName    string
	CheckNumber  string
	Amount       string
	DonationType string
}

type summaryView struct {
	Date        string
	ServiceType string
	RecordedBy  string
	CountedBy   string
	Donations   []summaryRow
	Total       string
}

// RenderHTMLSummary produces the HTML email body for a collection report.
func (r *Renderer) RenderHTMLSummary(input domain.ReportInput) (string, error) {
	c := input.Collection
	if c.Date.IsZero() {
		return "", apperrors.NewStepError(apperrors.StepRender,
			fmt.Errorf("%w: collection date is required", apperrors.ErrValidation))
	}

	view := summaryView{
		Date:        c.Date.String(),
		ServiceType: string(c.ServiceType),
		RecordedBy:  c.RecordedBy,
		CountedBy:   c.CountedBy,
		Total:       domain.ComputeTotal(input.Donations).StringFixed(2),
	}
	for _, d := range input.Donations {
		check := d.CheckNumber
		if check == "" {
			check = "-"
		}
		view.Donations = append(view.Donations, summaryRow{
			DonorName:    d.DonorName,
			CheckNumber:  check,
			Amount:       d.Amount.StringFixed(2),
			DonationType: string(d.DonationType),
		})
	}

	var buf bytes.Buffer
	if err := summaryTmpl.Execute(&buf, view); err != nil {
		return "", apperrors.NewStepError(apperrors.StepRender, fmt.Errorf("execute summary template: %w", err))
	}
	return buf.String(), nil
}
